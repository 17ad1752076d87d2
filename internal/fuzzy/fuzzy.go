// Package fuzzy provides approximate string matching for "did you mean"
// suggestions in error messages.
package fuzzy

import "strings"

// Distance returns the Levenshtein edit distance between two strings.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Suggest returns the candidates closest to name, nearest first, limited to
// edit distance maxDist. Case differences cost nothing extra beyond the
// usual substitution count.
func Suggest(name string, candidates []string, maxDist int) []string {
	type scored struct {
		name string
		dist int
	}
	var hits []scored
	for _, cand := range candidates {
		dist := Distance(strings.ToLower(name), strings.ToLower(cand))
		if dist <= maxDist {
			hits = append(hits, scored{cand, dist})
		}
	}
	// insertion sort, candidate lists are short
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].dist < hits[j-1].dist; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
