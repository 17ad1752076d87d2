package selection

import (
	"strings"

	"wrangle/domain/core"
)

// Term is one additive term of a parsed formula. A term with more than one
// variable is an interaction whose elementwise product is formed before any
// transformation.
type Term struct {
	Vars []string
}

// Interaction reports whether the term involves more than one variable.
func (t Term) Interaction() bool {
	return len(t.Vars) > 1
}

// Name returns the column name the term resolves to: the variable itself,
// or the product column "a_b" for an interaction.
func (t Term) Name() string {
	return strings.Join(t.Vars, "_")
}

// ParseFormula parses the small additive formula language used by the
// group-decomposition front-end: variables joined by "+", interactions
// marked with "*" (or ":"), an optional leading "~". It returns the flat
// term list; the structured Spec API remains the primary interface and the
// formula is only a convenience adapter over it.
func ParseFormula(formula string) ([]Term, error) {
	s := strings.TrimSpace(formula)
	s = strings.TrimPrefix(s, "~")
	if s == "" {
		return nil, core.NewValidationError("formula", "empty formula")
	}

	var terms []Term
	for _, chunk := range strings.Split(s, "+") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			return nil, core.NewValidationError("formula", "empty term in "+formula)
		}
		sep := "*"
		if !strings.Contains(chunk, "*") && strings.Contains(chunk, ":") {
			sep = ":"
		}
		var vars []string
		for _, v := range strings.Split(chunk, sep) {
			v = strings.TrimSpace(v)
			if v == "" {
				return nil, core.NewValidationError("formula", "empty variable in term "+chunk)
			}
			vars = append(vars, v)
		}
		terms = append(terms, Term{Vars: vars})
	}
	return terms, nil
}

// ParseVariables parses a formula that must contain plain variables only
// (no interactions), as used for grouping specifications.
func ParseVariables(formula string) ([]string, error) {
	terms, err := ParseFormula(formula)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Interaction() {
			return nil, core.NewValidationError("formula", "interaction term not allowed: "+t.Name())
		}
		names = append(names, t.Vars[0])
	}
	return names, nil
}
