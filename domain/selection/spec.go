// Package selection defines the structured column-selection language: a
// closed set of specification variants that the selector package resolves
// against a frame. Specs describe columns by literal name, string pattern,
// positional index, inclusive name range, value predicate, or complement,
// and compose through AnyOf.
package selection

import "wrangle/domain/frame"

// Spec is a column-selection specification. The concrete variants form a
// closed union; external packages construct them through the helpers below.
type Spec interface {
	isSpec()
}

// PatternKind selects the matching rule of a Pattern spec.
type PatternKind string

const (
	MatchStartsWith PatternKind = "starts_with"
	MatchEndsWith   PatternKind = "ends_with"
	MatchContains   PatternKind = "contains"
	MatchRegex      PatternKind = "regex"
)

// Explicit selects columns by literal name, in the order given. Entries of
// the form "a:b" expand to the inclusive name range between columns a and b.
// Aliases optionally map selected names to new names for rename consumers.
type Explicit struct {
	Names   []string
	Aliases map[string]string
}

// Pattern selects columns whose names match one or more patterns.
type Pattern struct {
	Kind       PatternKind
	Patterns   []string
	IgnoreCase bool
}

// Range selects the inclusive span of columns between From and To in frame
// order; either direction is accepted.
type Range struct {
	From string
	To   string
}

// Indices selects columns by 1-based position. All-negative positions
// exclude those positions instead; mixing signs is an error.
type Indices struct {
	Positions []int
}

// Predicate selects columns whose values satisfy a test.
type Predicate struct {
	Test func(*frame.Column) bool
}

// Negated selects the complement of its inner spec, in frame order.
type Negated struct {
	Inner Spec
}

// Union selects the union of its member specs, preserving first-seen order.
type Union struct {
	Specs []Spec
}

func (Explicit) isSpec()  {}
func (Pattern) isSpec()   {}
func (Range) isSpec()     {}
func (Indices) isSpec()   {}
func (Predicate) isSpec() {}
func (Negated) isSpec()   {}
func (Union) isSpec()     {}

// Names selects columns by literal name.
func Names(names ...string) Explicit {
	return Explicit{Names: names}
}

// Renamed selects columns by literal name with a rename mapping from old
// name to new name.
func Renamed(aliases map[string]string, names ...string) Explicit {
	return Explicit{Names: names, Aliases: aliases}
}

// StartsWith selects columns whose names begin with any prefix.
func StartsWith(prefixes ...string) Pattern {
	return Pattern{Kind: MatchStartsWith, Patterns: prefixes}
}

// EndsWith selects columns whose names end with any suffix.
func EndsWith(suffixes ...string) Pattern {
	return Pattern{Kind: MatchEndsWith, Patterns: suffixes}
}

// Contains selects columns whose names contain any substring.
func Contains(substrings ...string) Pattern {
	return Pattern{Kind: MatchContains, Patterns: substrings}
}

// Regex selects columns whose names match any of the regular expressions.
func Regex(patterns ...string) Pattern {
	return Pattern{Kind: MatchRegex, Patterns: patterns}
}

// Span selects the inclusive range of columns between from and to.
func Span(from, to string) Range {
	return Range{From: from, To: to}
}

// At selects columns by 1-based position; all-negative positions exclude.
func At(positions ...int) Indices {
	return Indices{Positions: positions}
}

// Where selects columns whose values satisfy the test.
func Where(test func(*frame.Column) bool) Predicate {
	return Predicate{Test: test}
}

// Not selects the complement of the inner spec.
func Not(inner Spec) Negated {
	return Negated{Inner: inner}
}

// AnyOf selects the union of the given specs.
func AnyOf(specs ...Spec) Union {
	return Union{Specs: specs}
}
