package fuzzy

import "testing"

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"incme", "income", 1},
		{"Sepal.Length", "Sepal.Width", 4},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSuggest_NearestFirst(t *testing.T) {
	got := Suggest("incme", []string{"income", "intake", "outcome"}, 2)
	if len(got) != 1 || got[0] != "income" {
		t.Errorf("got %v", got)
	}
}

func TestSuggest_SortedByDistance(t *testing.T) {
	got := Suggest("grp", []string{"group", "grip", "gr"}, 2)
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	// gr and grip are one edit away, group is two.
	if got[2] != "group" {
		t.Errorf("got %v", got)
	}
}

func TestSuggest_CaseInsensitive(t *testing.T) {
	got := Suggest("species", []string{"Species"}, 0)
	if len(got) != 1 || got[0] != "Species" {
		t.Errorf("got %v", got)
	}
}

func TestSuggest_NoMatches(t *testing.T) {
	if got := Suggest("zzz", []string{"income", "group"}, 2); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}
