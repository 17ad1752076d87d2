package selection

import (
	"testing"
)

func TestParseFormula_AdditiveTerms(t *testing.T) {
	terms, err := ParseFormula("x1 + x2 + x3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(terms) != 3 {
		t.Fatalf("terms = %d", len(terms))
	}
	for i, want := range []string{"x1", "x2", "x3"} {
		if terms[i].Name() != want {
			t.Errorf("term %d = %q, want %q", i, terms[i].Name(), want)
		}
		if terms[i].Interaction() {
			t.Errorf("term %d should not be an interaction", i)
		}
	}
}

func TestParseFormula_TildePrefix(t *testing.T) {
	terms, err := ParseFormula("~ x1 + x2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(terms) != 2 || terms[0].Name() != "x1" {
		t.Errorf("terms = %v", terms)
	}
}

func TestParseFormula_StarInteraction(t *testing.T) {
	terms, err := ParseFormula("x1 + x2*x3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("terms = %d", len(terms))
	}
	if !terms[1].Interaction() {
		t.Fatal("x2*x3 should be an interaction")
	}
	if terms[1].Name() != "x2_x3" {
		t.Errorf("name = %q", terms[1].Name())
	}
}

func TestParseFormula_ColonInteraction(t *testing.T) {
	terms, err := ParseFormula("a:b")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !terms[0].Interaction() || terms[0].Name() != "a_b" {
		t.Errorf("terms = %v", terms)
	}
}

func TestParseFormula_ThreeWayInteraction(t *testing.T) {
	terms, err := ParseFormula("a*b*c")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(terms[0].Vars) != 3 {
		t.Errorf("vars = %v", terms[0].Vars)
	}
}

func TestParseFormula_Errors(t *testing.T) {
	for _, formula := range []string{"", "~", "x1 + ", "a**b", "x1 ++ x2"} {
		if _, err := ParseFormula(formula); err == nil {
			t.Errorf("formula %q should fail", formula)
		}
	}
}

func TestParseVariables_PlainNames(t *testing.T) {
	names, err := ParseVariables("~ g1 + g2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(names) != 2 || names[0] != "g1" || names[1] != "g2" {
		t.Errorf("names = %v", names)
	}
}

func TestParseVariables_RejectsInteractions(t *testing.T) {
	if _, err := ParseVariables("g1*g2"); err == nil {
		t.Fatal("interaction in grouping formula should fail")
	}
}
