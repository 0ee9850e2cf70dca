// Package fuzzy provides typo-tolerant matching for task search.
package fuzzy

import "strings"

// LevenshteinDistance calculates the edit distance between two strings:
// how many single-character insertions, deletions, or substitutions are
// required to change one into the other.
func LevenshteinDistance(s1, s2 string) int {
	s1 = normalizeString(s1)
	s2 = normalizeString(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}
	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// Match checks whether query fuzzy-matches text within the given maximum
// edit distance. Substring and prefix hits always match.
func Match(query, text string, threshold int) bool {
	query = normalizeString(query)
	text = normalizeString(text)

	if strings.Contains(text, query) {
		return true
	}

	for _, word := range strings.Fields(text) {
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
		if strings.HasPrefix(word, query) {
			return true
		}
	}

	return false
}

// ScoreTask scores how relevant a task is to a search query. Higher is
// more relevant; zero means no match. The title carries the most weight,
// then subject, tags, and description.
func ScoreTask(query, title, subject, description string, tags []string) float64 {
	query = normalizeString(query)
	if query == "" {
		return 0
	}

	score := fieldScore(query, title, 100, 50)
	score += fieldScore(query, subject, 70, 30)
	for _, tag := range tags {
		score += fieldScore(query, tag, 60, 20)
	}
	score += fieldScore(query, description, 40, 15)
	return score
}

// fieldScore gives full credit for a substring hit, a word-match bonus on
// top, and partial credit for near-miss words.
func fieldScore(query, text string, base, bonus float64) float64 {
	norm := normalizeString(text)
	if norm == "" {
		return 0
	}

	if strings.Contains(norm, query) {
		score := base
		if containsWord(norm, query) {
			score += bonus
		}
		return score
	}

	score := 0.0
	for _, word := range strings.Fields(norm) {
		if dist := LevenshteinDistance(query, word); dist <= 2 {
			score += base/2 - float64(dist)*base/8
		}
		if strings.HasPrefix(word, query) {
			score += base / 3
		}
	}
	return score
}

// Threshold picks a typo tolerance based on query length.
func Threshold(query string) int {
	switch {
	case len(query) <= 3:
		return 1
	case len(query) >= 8:
		return 3
	default:
		return 2
	}
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalizeString lowercases and collapses whitespace.
func normalizeString(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// containsWord checks if text contains query as a whole word.
func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return false
}
