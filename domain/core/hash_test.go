package core

import "testing"

func TestNewCellHash_SensitiveToBoundaries(t *testing.T) {
	a := NewCellHash([][]string{{"ab", "c"}})
	b := NewCellHash([][]string{{"a", "bc"}})
	if a == b {
		t.Error("moving text across a cell boundary should change the digest")
	}

	c := NewCellHash([][]string{{"x"}, {"y"}})
	d := NewCellHash([][]string{{"x", "y"}})
	if c == d {
		t.Error("row and cell boundaries should hash differently")
	}
}

func TestNewCellHash_Deterministic(t *testing.T) {
	rows := [][]string{{"x", "y"}, {"1", "2"}}
	if NewCellHash(rows) != NewCellHash(rows) {
		t.Error("digest should be deterministic")
	}
	if NewCellHash(rows).IsEmpty() {
		t.Error("digest should not be empty")
	}
}
