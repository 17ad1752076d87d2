// Package selector resolves column-selection specifications against a frame
// into a concrete, deduplicated, ordered list of column names. It implements
// the two-phase select/exclude protocol every transformation in this module
// feeds from.
package selector

import (
	"regexp"
	"strings"

	"wrangle/domain/core"
	"wrangle/domain/frame"
	"wrangle/domain/selection"
)

// Options controls matching behavior.
type Options struct {
	// IgnoreCase folds case when matching literal names and patterns.
	IgnoreCase bool
	// Regex reinterprets a single-name Explicit spec as a regular
	// expression over column names.
	Regex bool
}

// DefaultOptions returns case-sensitive, non-regex matching.
func DefaultOptions() Options {
	return Options{}
}

// Resolve resolves the select spec, resolves the exclude spec, and returns
// the set difference in select order. A nil select spec means all columns in
// frame order; a nil exclude spec excludes nothing. Unmatched names resolve
// to nothing rather than erroring, so the result may be empty.
func Resolve(f *frame.Frame, sel, excl selection.Spec, opts Options) ([]string, error) {
	names, _, err := ResolveRename(f, sel, excl, opts)
	return names, err
}

// ResolveRename is Resolve, additionally returning the old-name-to-new-name
// mapping carried by an Explicit spec's aliases. The mapping is nil when the
// spec carries none; only rename consumers look at it.
func ResolveRename(f *frame.Frame, sel, excl selection.Spec, opts Options) ([]string, map[string]string, error) {
	if opts.Regex {
		var err error
		sel, err = regexSpec(sel)
		if err != nil {
			return nil, nil, err
		}
	}

	selected, err := resolveSpec(f, sel, opts)
	if err != nil {
		return nil, nil, err
	}
	if excl != nil {
		excluded, err := resolveSpec(f, excl, opts)
		if err != nil {
			return nil, nil, err
		}
		drop := make(map[string]bool, len(excluded))
		for _, name := range excluded {
			drop[name] = true
		}
		kept := selected[:0]
		for _, name := range selected {
			if !drop[name] {
				kept = append(kept, name)
			}
		}
		selected = kept
	}

	var aliases map[string]string
	if exp, ok := sel.(selection.Explicit); ok && len(exp.Aliases) > 0 {
		aliases = make(map[string]string)
		for _, name := range selected {
			if alias, ok := exp.Aliases[name]; ok {
				aliases[name] = alias
			}
		}
	}
	return selected, aliases, nil
}

// regexSpec converts a single-name Explicit spec into a regex pattern spec.
func regexSpec(sel selection.Spec) (selection.Spec, error) {
	exp, ok := sel.(selection.Explicit)
	if !ok || len(exp.Names) != 1 {
		return nil, core.ErrRegexSpec
	}
	return selection.Regex(exp.Names[0]), nil
}

func resolveSpec(f *frame.Frame, spec selection.Spec, opts Options) ([]string, error) {
	if spec == nil {
		return f.Names(), nil
	}
	switch s := spec.(type) {
	case selection.Explicit:
		return resolveExplicit(f, s, opts), nil
	case selection.Pattern:
		return resolvePattern(f, s, opts)
	case selection.Range:
		return resolveRange(f, s.From, s.To), nil
	case selection.Indices:
		return resolveIndices(f, s.Positions)
	case selection.Predicate:
		return resolvePredicate(f, s)
	case selection.Negated:
		inner, err := resolveSpec(f, s.Inner, opts)
		if err != nil {
			return nil, err
		}
		return complement(f, inner), nil
	case selection.Union:
		var out []string
		seen := make(map[string]bool)
		for _, member := range s.Specs {
			names, err := resolveSpec(f, member, opts)
			if err != nil {
				return nil, err
			}
			for _, name := range names {
				if !seen[name] {
					seen[name] = true
					out = append(out, name)
				}
			}
		}
		return out, nil
	}
	return nil, core.NewValidationError("select", "unsupported specification")
}

func resolveExplicit(f *frame.Frame, s selection.Explicit, opts Options) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, entry := range s.Names {
		if from, to, ok := splitRangeToken(entry, f); ok {
			for _, name := range resolveRange(f, from, to) {
				add(name)
			}
			continue
		}
		if name, ok := lookupName(f, entry, opts.IgnoreCase); ok {
			add(name)
		}
		// unmatched literal names are dropped, never an error
	}
	return out
}

// splitRangeToken recognizes "a:b" entries naming an inclusive column range.
// A token only counts as a range when it is not itself a column name and
// both endpoints are.
func splitRangeToken(entry string, f *frame.Frame) (string, string, bool) {
	if f.Has(entry) || !strings.Contains(entry, ":") {
		return "", "", false
	}
	parts := strings.SplitN(entry, ":", 2)
	from, to := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if !f.Has(from) || !f.Has(to) {
		return "", "", false
	}
	return from, to, true
}

func lookupName(f *frame.Frame, entry string, ignoreCase bool) (string, bool) {
	if f.Has(entry) {
		return entry, true
	}
	if !ignoreCase {
		return "", false
	}
	folded := strings.ToLower(entry)
	for _, name := range f.Names() {
		if strings.ToLower(name) == folded {
			return name, true
		}
	}
	return "", false
}

func resolvePattern(f *frame.Frame, s selection.Pattern, opts Options) ([]string, error) {
	ignoreCase := s.IgnoreCase || opts.IgnoreCase
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range s.Patterns {
		var match func(name string) bool
		switch s.Kind {
		case selection.MatchRegex:
			expr := pattern
			if ignoreCase {
				expr = "(?i)" + expr
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, core.NewValidationError("select", "invalid regular expression "+pattern+": "+err.Error())
			}
			match = re.MatchString
		default:
			needle := pattern
			if ignoreCase {
				needle = strings.ToLower(needle)
			}
			match = func(name string) bool {
				if ignoreCase {
					name = strings.ToLower(name)
				}
				switch s.Kind {
				case selection.MatchStartsWith:
					return strings.HasPrefix(name, needle)
				case selection.MatchEndsWith:
					return strings.HasSuffix(name, needle)
				default:
					return strings.Contains(name, needle)
				}
			}
		}
		for _, name := range f.Names() {
			if match(name) && !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out, nil
}

// resolveRange returns the inclusive positional span between two named
// columns, in frame order regardless of endpoint order. Unknown endpoints
// resolve to nothing.
func resolveRange(f *frame.Frame, from, to string) []string {
	i, ok1 := f.Pos(from)
	j, ok2 := f.Pos(to)
	if !ok1 || !ok2 {
		return nil
	}
	if i > j {
		i, j = j, i
	}
	names := f.Names()
	return append([]string(nil), names[i:j+1]...)
}

func resolveIndices(f *frame.Frame, positions []int) ([]string, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	pos, neg := 0, 0
	for _, p := range positions {
		if p > 0 {
			pos++
		}
		if p < 0 {
			neg++
		}
	}
	if pos > 0 && neg > 0 {
		return nil, core.ErrMixedIndices
	}

	names := f.Names()
	if neg > 0 {
		drop := make(map[int]bool, len(positions))
		for _, p := range positions {
			drop[-p-1] = true
		}
		var out []string
		for i, name := range names {
			if !drop[i] {
				out = append(out, name)
			}
		}
		return out, nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, p := range positions {
		if p < 1 || p > len(names) {
			continue
		}
		name := names[p-1]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

func resolvePredicate(f *frame.Frame, s selection.Predicate) ([]string, error) {
	if s.Test == nil {
		return nil, core.ErrBadPredicate
	}
	var out []string
	for i := 0; i < f.NumColumns(); i++ {
		col := f.ColumnAt(i)
		if s.Test(col) {
			out = append(out, col.Name)
		}
	}
	return out, nil
}

func complement(f *frame.Frame, matched []string) []string {
	in := make(map[string]bool, len(matched))
	for _, name := range matched {
		in[name] = true
	}
	var out []string
	for _, name := range f.Names() {
		if !in[name] {
			out = append(out, name)
		}
	}
	return out
}
