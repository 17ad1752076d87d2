package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash is a hex-encoded SHA-256 digest used to fingerprint loaded data, so
// callers can detect when a file's contents changed between reads.
type Hash string

// NewHash hashes raw bytes.
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// NewCellHash fingerprints tabular cell text, row by row. Cell and row
// boundaries are delimited so shifting text between cells changes the digest.
func NewCellHash(rows [][]string) Hash {
	h := sha256.New()
	for _, row := range rows {
		h.Write([]byte(strings.Join(row, "\x1f")))
		h.Write([]byte{'\x1e'})
	}
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// String returns the hex digest.
func (h Hash) String() string {
	return string(h)
}

// IsEmpty reports whether the hash is unset.
func (h Hash) IsEmpty() bool {
	return h == ""
}
