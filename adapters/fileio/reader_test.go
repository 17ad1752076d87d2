package fileio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangle/domain/frame"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead_MissingFile(t *testing.T) {
	_, _, err := NewReader("/nonexistent/data.csv").Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRead_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "x,y\n")
	_, _, err := NewReader(path).Read()
	require.Error(t, err)
}

func TestRead_SniffsColumnKinds(t *testing.T) {
	path := writeTempCSV(t,
		"score,band,active,joined\n"+
			"1.5,a,true,2020-01-02\n"+
			"na,b,false,2021-03-04\n"+
			"3.5,a,yes,2022-05-06\n")

	f, meta, err := NewReader(path).Read()
	require.NoError(t, err)

	score, _ := f.Column("score")
	assert.Equal(t, frame.KindNumeric, score.Kind)
	assert.Equal(t, 1.5, score.Floats[0])
	assert.True(t, math.IsNaN(score.Floats[1]))

	band, _ := f.Column("band")
	assert.Equal(t, frame.KindFactor, band.Kind)
	assert.Equal(t, []string{"a", "b"}, band.Levels)

	active, _ := f.Column("active")
	assert.Equal(t, frame.KindBool, active.Kind)
	assert.True(t, active.Bools[0])
	assert.False(t, active.Bools[1])
	assert.True(t, active.Bools[2])

	joined, _ := f.Column("joined")
	assert.Equal(t, frame.KindTime, joined.Kind)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), joined.Times[0])

	assert.Equal(t, "csv", meta.Format)
	assert.Equal(t, 3, meta.Rows)
	assert.Equal(t, 4, meta.Columns)
	assert.Equal(t, path, meta.Path)
	assert.False(t, meta.Fingerprint.IsEmpty())
}

func TestRead_FingerprintStableAcrossReads(t *testing.T) {
	path := writeTempCSV(t, "x\n1\n2\n")
	_, first, err := NewReader(path).Read()
	require.NoError(t, err)
	_, second, err := NewReader(path).Read()
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.NotEqual(t, first.ID, second.ID)

	other := writeTempCSV(t, "x\n1\n3\n")
	_, changed, err := NewReader(other).Read()
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint, changed.Fingerprint)
}

func TestRead_RaggedRowsPadWithMissing(t *testing.T) {
	path := writeTempCSV(t, "x,y\n1,2\n3\n")
	f, _, err := NewReader(path).Read()
	require.NoError(t, err)

	y, _ := f.Column("y")
	assert.Equal(t, 2.0, y.Floats[0])
	assert.True(t, math.IsNaN(y.Floats[1]))
}

func TestRead_BlankHeaderGetsPositionalName(t *testing.T) {
	path := writeTempCSV(t, "x,\n1,2\n")
	f, _, err := NewReader(path).Read()
	require.NoError(t, err)
	assert.True(t, f.Has("column_2"))
}

func TestRead_MaxLevelsFallsBackToText(t *testing.T) {
	path := writeTempCSV(t, "tag\nalpha\nbeta\ngamma\n")

	cfg := DefaultSniffConfig()
	cfg.MaxLevels = 2
	f, _, err := NewReader(path).WithSniffConfig(cfg).Read()
	require.NoError(t, err)

	tag, _ := f.Column("tag")
	assert.Equal(t, frame.KindString, tag.Kind)
}

func TestWrite_CSVRoundTrip(t *testing.T) {
	f, err := frame.New(
		frame.NewNumeric("x", []float64{1.5, math.NaN(), 3}),
		frame.NewFactor("g", []string{"a", "b", ""}),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(f, path))

	back, _, err := NewReader(path).Read()
	require.NoError(t, err)

	x, _ := back.Column("x")
	assert.Equal(t, frame.KindNumeric, x.Kind)
	assert.Equal(t, 1.5, x.Floats[0])
	assert.True(t, math.IsNaN(x.Floats[1]))
	assert.Equal(t, 3.0, x.Floats[2])

	g, _ := back.Column("g")
	assert.Equal(t, frame.KindFactor, g.Kind)
	if label, ok := g.Label(0); assert.True(t, ok) {
		assert.Equal(t, "a", label)
	}
	assert.True(t, g.Missing(2))
}

func TestWrite_ExcelRoundTrip(t *testing.T) {
	f, err := frame.New(
		frame.NewNumeric("x", []float64{1, 2}),
		frame.NewFactor("g", []string{"a", "b"}),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Write(f, path))

	back, meta, err := NewReader(path).Read()
	require.NoError(t, err)
	assert.Equal(t, "xlsx", meta.Format)

	x, _ := back.Column("x")
	assert.Equal(t, []float64{1, 2}, x.Floats)
	g, _ := back.Column("g")
	assert.Equal(t, frame.KindFactor, g.Kind)
}
