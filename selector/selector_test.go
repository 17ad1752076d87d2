package selector

import (
	"errors"
	"reflect"
	"testing"

	"wrangle/domain/core"
	"wrangle/domain/frame"
	"wrangle/domain/selection"
)

func irisFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		frame.NewNumeric("Sepal.Length", []float64{5.1, 4.9, 4.7}),
		frame.NewNumeric("Sepal.Width", []float64{3.5, 3.0, 3.2}),
		frame.NewNumeric("Petal.Length", []float64{1.4, 1.4, 1.3}),
		frame.NewNumeric("Petal.Width", []float64{0.2, 0.2, 0.2}),
		frame.NewFactor("Species", []string{"setosa", "setosa", "setosa"}),
	)
	if err != nil {
		t.Fatalf("building frame: %v", err)
	}
	return f
}

func TestResolve_NilSelectReturnsAllColumns(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, nil, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(got, f.Names()) {
		t.Errorf("got %v, want all columns in frame order", got)
	}
}

func TestResolve_StartsWithPattern(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.StartsWith("Sepal"), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Sepal.Length", "Sepal.Width"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_EndsWith(t *testing.T) {
	f := irisFrame(t)

	got, err := Resolve(f, selection.EndsWith("Width"), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Sepal.Width", "Petal.Width"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EndsWith: got %v, want %v", got, want)
	}
}

func TestResolve_ContainsUnionPreservesFirstSeenOrder(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.Contains("Length", "Sepal"), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Sepal.Length", "Petal.Length", "Sepal.Width"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_IgnoreCase(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.StartsWith("sepal"), nil, Options{IgnoreCase: true})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Sepal.Length", "Sepal.Width"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_ExplicitDropsUnmatchedSilently(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.Names("Species", "NoSuchColumn"), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Species"}) {
		t.Errorf("got %v, want [Species]", got)
	}
}

func TestResolve_ExplicitRangeToken(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.Names("Sepal.Width:Petal.Width"), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Sepal.Width", "Petal.Length", "Petal.Width"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_RangeSymmetry(t *testing.T) {
	f := irisFrame(t)
	forward, err := Resolve(f, selection.Span("Sepal.Width", "Petal.Width"), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	backward, err := Resolve(f, selection.Span("Petal.Width", "Sepal.Width"), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("Span(a,b)=%v but Span(b,a)=%v", forward, backward)
	}
}

func TestResolve_PositiveIndices(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.At(2, 4), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Sepal.Width", "Petal.Width"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_NegativeIndicesExclude(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.At(-1, -5), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Sepal.Width", "Petal.Length", "Petal.Width"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_MixedIndicesError(t *testing.T) {
	f := irisFrame(t)
	_, err := Resolve(f, selection.At(1, -2), nil, DefaultOptions())
	if !errors.Is(err, core.ErrMixedIndices) {
		t.Fatalf("expected ErrMixedIndices, got %v", err)
	}
}

func TestResolve_PredicateOnColumnValues(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.Where(frame.IsCategorical), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Species"}) {
		t.Errorf("got %v, want [Species]", got)
	}
}

func TestResolve_ComplementLaw(t *testing.T) {
	f := irisFrame(t)
	specs := []selection.Spec{
		selection.StartsWith("Sepal"),
		selection.Names("Species"),
		selection.At(1, 2),
		selection.Where(frame.IsNumeric),
	}
	for _, spec := range specs {
		matched, err := Resolve(f, spec, nil, DefaultOptions())
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		negated, err := Resolve(f, selection.Not(spec), nil, DefaultOptions())
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if len(matched)+len(negated) != f.NumColumns() {
			t.Errorf("complement sizes %d + %d != %d columns", len(matched), len(negated), f.NumColumns())
		}
		seen := make(map[string]bool)
		for _, name := range matched {
			seen[name] = true
		}
		for _, name := range negated {
			if seen[name] {
				t.Errorf("column %s in both a spec and its complement", name)
			}
		}
	}
}

func TestResolve_Idempotence(t *testing.T) {
	f := irisFrame(t)
	once, err := Resolve(f, selection.StartsWith("Petal"), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	twice, err := Resolve(f, selection.Names(once...), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-resolving resolved names changed the result: %v vs %v", once, twice)
	}
}

func TestResolve_ExcludeSubtractsInSelectOrder(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.StartsWith("Sepal", "Petal"), selection.EndsWith("Width"), DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Sepal.Length", "Petal.Length"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_ExcludeWithoutSelectUsesFrameOrder(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, nil, selection.Names("Species"), DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Sepal.Length", "Sepal.Width", "Petal.Length", "Petal.Width"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_RegexMode(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.Names(`^Petal\.`), nil, Options{Regex: true})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{"Petal.Length", "Petal.Width"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_RegexModeRequiresSingleString(t *testing.T) {
	f := irisFrame(t)
	_, err := Resolve(f, selection.Names("a", "b"), nil, Options{Regex: true})
	if !errors.Is(err, core.ErrRegexSpec) {
		t.Fatalf("expected ErrRegexSpec, got %v", err)
	}
}

func TestResolve_NoMatchesIsEmptyNotError(t *testing.T) {
	f := irisFrame(t)
	got, err := Resolve(f, selection.StartsWith("Zzz"), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty result", got)
	}
}

func TestResolveRename_ReturnsAliasMapping(t *testing.T) {
	f := irisFrame(t)
	spec := selection.Renamed(map[string]string{"Species": "species_name"}, "Species", "Sepal.Length")
	names, aliases, err := ResolveRename(f, spec, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("ResolveRename failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Species", "Sepal.Length"}) {
		t.Errorf("names = %v", names)
	}
	if aliases["Species"] != "species_name" {
		t.Errorf("aliases = %v, want Species mapped to species_name", aliases)
	}
}
