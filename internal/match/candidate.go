package match

import (
	"sort"
)

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name string

	// Normalized Levenshtein similarity (0-1), best of plain and suffix-stripped forms
	NameScore float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every known name against target.
// Returns candidates sorted by score (descending).
func RankCandidates(target string, names []string) CandidateList {
	candidates := make(CandidateList, 0, len(names))

	for _, name := range names {
		score := max(
			NormalizedLevenshteinScore(name, target),
			NormalizedLevenshteinScoreWithSuffixStrip(name, target),
		)

		candidates = append(candidates, Candidate{Name: name, NameScore: score})
	}

	// Sort by score (descending), then by name for determinism
	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n known names that look like target, best first.
func Suggest(target string, names []string, n int) []string {
	ranked := RankCandidates(target, names).AboveThreshold(DefaultSuggestThreshold).Top(n)
	if len(ranked) == 0 {
		return nil
	}

	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Name
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].NameScore != c[j].NameScore {
		return c[i].NameScore > c[j].NameScore
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// AboveThreshold returns candidates with score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.NameScore >= threshold {
			result = append(result, cand)
		}
	}
	return result
}

const (
	// DefaultSuggestThreshold is the minimum score for a name to be suggested.
	DefaultSuggestThreshold = 0.5
	// DefaultSuggestions is how many names are suggested for an unknown one.
	DefaultSuggestions = 3
)
