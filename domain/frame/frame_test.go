package frame

import (
	"math"
	"testing"
	"time"
)

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New(
		NewNumeric("x", []float64{1}),
		NewNumeric("x", []float64{2}),
	)
	if err == nil {
		t.Fatal("expected duplicate column error")
	}
}

func TestNew_RejectsUnequalLengths(t *testing.T) {
	_, err := New(
		NewNumeric("x", []float64{1, 2}),
		NewNumeric("y", []float64{1}),
	)
	if err == nil {
		t.Fatal("expected column length error")
	}
}

func TestFactor_FirstEncounteredLevels(t *testing.T) {
	c := NewFactor("g", []string{"b", "a", "b", "", "c"})
	want := []string{"b", "a", "c"}
	if len(c.Levels) != len(want) {
		t.Fatalf("levels = %v, want %v", c.Levels, want)
	}
	for i := range want {
		if c.Levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", c.Levels, want)
		}
	}
	if !c.Missing(3) {
		t.Error("empty label should be missing")
	}
	if c.Missing(0) {
		t.Error("row 0 should not be missing")
	}
}

func TestColumn_Label(t *testing.T) {
	num := NewNumeric("x", []float64{1.5, math.NaN()})
	if label, ok := num.Label(0); !ok || label != "1.5" {
		t.Errorf("numeric label = %q, %v", label, ok)
	}
	if _, ok := num.Label(1); ok {
		t.Error("NaN should have no label")
	}

	b := NewBool("flag", []bool{true, false})
	if label, _ := b.Label(0); label != "true" {
		t.Errorf("bool label = %q", label)
	}

	fac := NewFactor("g", []string{"hi", "lo"})
	if label, _ := fac.Label(1); label != "lo" {
		t.Errorf("factor label = %q", label)
	}
}

func TestFrame_AddAndSetColumn(t *testing.T) {
	f := MustNew(NewNumeric("x", []float64{1, 2}))

	if err := f.AddColumn(NewNumeric("x", []float64{3, 4})); err == nil {
		t.Error("duplicate add should fail")
	}
	if err := f.AddColumn(NewNumeric("y", []float64{3})); err == nil {
		t.Error("length mismatch add should fail")
	}
	if err := f.AddColumn(NewNumeric("y", []float64{3, 4})); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Replacement keeps position, addition appends.
	if err := f.SetColumn(NewNumeric("x", []float64{9, 9})); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := f.SetColumn(NewNumeric("z", []float64{5, 6})); err != nil {
		t.Fatalf("set new: %v", err)
	}
	names := f.Names()
	if names[0] != "x" || names[1] != "y" || names[2] != "z" {
		t.Errorf("names = %v", names)
	}
	x, _ := f.Column("x")
	if x.Floats[0] != 9 {
		t.Errorf("x[0] = %v after replacement", x.Floats[0])
	}
}

func TestFrame_FilterRows(t *testing.T) {
	f := MustNew(
		NewNumeric("x", []float64{1, 2, 3, 4}),
		NewFactor("g", []string{"a", "b", "a", "b"}),
	)
	out := f.FilterRows([]bool{true, false, true, false})
	if out.Rows() != 2 {
		t.Fatalf("rows = %d", out.Rows())
	}
	x, _ := out.Column("x")
	if x.Floats[0] != 1 || x.Floats[1] != 3 {
		t.Errorf("x = %v", x.Floats)
	}
	g, _ := out.Column("g")
	if label, _ := g.Label(1); label != "a" {
		t.Errorf("g[1] = %q", label)
	}
}

func TestFrame_CloneIsDeep(t *testing.T) {
	f := MustNew(NewNumeric("x", []float64{1, 2}))
	clone := f.Clone()
	x, _ := clone.Column("x")
	x.Floats[0] = 99

	orig, _ := f.Column("x")
	if orig.Floats[0] != 1 {
		t.Error("clone shares backing storage with original")
	}
}

func TestFrame_Rename(t *testing.T) {
	f := MustNew(
		NewNumeric("x", []float64{1}),
		NewNumeric("y", []float64{2}),
	)
	if err := f.Rename("x", "y"); err == nil {
		t.Error("rename onto existing name should fail")
	}
	if err := f.Rename("x", "z"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !f.Has("z") || f.Has("x") {
		t.Errorf("names = %v", f.Names())
	}
	if i, _ := f.Pos("z"); i != 0 {
		t.Errorf("renamed column moved to position %d", i)
	}
}

func TestBind_AppendsColumns(t *testing.T) {
	a := MustNew(NewNumeric("x", []float64{1, 2}))
	b := MustNew(NewNumeric("y", []float64{3, 4}))
	out, err := Bind(a, b)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if out.NumColumns() != 2 {
		t.Fatalf("columns = %d", out.NumColumns())
	}

	_, err = Bind(a, MustNew(NewNumeric("x", []float64{0, 0})))
	if err == nil {
		t.Error("bind with duplicate name should fail")
	}
}

func TestToNumeric_Bool(t *testing.T) {
	c := NewBool("flag", []bool{true, false, true})
	x, ok := ToNumeric(&c)
	if !ok {
		t.Fatal("bool should coerce")
	}
	if x[0] != 1 || x[1] != 0 || x[2] != 1 {
		t.Errorf("x = %v", x)
	}
}

func TestToNumeric_TimeIsEpochSeconds(t *testing.T) {
	ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTime("when", []time.Time{ts})
	x, ok := ToNumeric(&c)
	if !ok {
		t.Fatal("time should coerce")
	}
	if x[0] != float64(ts.Unix()) {
		t.Errorf("x = %v, want %v", x[0], ts.Unix())
	}
}

func TestToNumeric_FactorNumericLabelsParse(t *testing.T) {
	c := NewFactor("dose", []string{"0.5", "10", "0.5", ""})
	x, _ := ToNumeric(&c)
	if x[0] != 0.5 || x[1] != 10 || x[2] != 0.5 {
		t.Errorf("x = %v", x)
	}
	if !math.IsNaN(x[3]) {
		t.Error("missing label should coerce to NaN")
	}
}

func TestToNumeric_FactorTextLabelsUseCodes(t *testing.T) {
	c := NewFactor("band", []string{"lo", "hi", "lo"})
	x, _ := ToNumeric(&c)
	// Codes are dense 1..k in level order.
	if x[0] != 1 || x[1] != 2 || x[2] != 1 {
		t.Errorf("x = %v", x)
	}
}

func TestToNumeric_StringGoesThroughFactor(t *testing.T) {
	c := NewStringWithMissing("s", []string{"2", "4", ""}, []bool{true, true, false})
	x, ok := ToNumeric(&c)
	if !ok {
		t.Fatal("string should coerce")
	}
	if x[0] != 2 || x[1] != 4 || !math.IsNaN(x[2]) {
		t.Errorf("x = %v", x)
	}
}
