package application

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// SearchResult pairs a matching record with its best field score.
type SearchResult struct {
	model.Record
	Score float64
}

// Search returns the records with at least one field whose similarity to
// query reaches threshold, best match first. Ties keep the input order.
func Search(records []model.Record, query string, threshold float64) ([]model.Record, error) {
	ranked, err := Rank(records, query, threshold)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, len(ranked))
	for i, r := range ranked {
		out[i] = r.Record
	}
	return out, nil
}

// Rank is Search with the per-record score attached.
//
// Every one of the seven fields is compared independently after Unicode case
// folding; empty fields never match. A record's score is its best retained
// field ratio.
func Rank(records []model.Record, query string, threshold float64) ([]SearchResult, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold %v outside [0,1]: %w", threshold, model.ErrValidation)
	}

	fold := cases.Fold()
	q := []rune(fold.String(query))

	var results []SearchResult
	for _, rec := range records {
		best, matched := 0.0, false
		for _, v := range rec.Values() {
			if v == "" {
				continue
			}
			ratio := similarityRatio(q, []rune(fold.String(v)))
			if ratio >= threshold && (!matched || ratio > best) {
				best, matched = ratio, true
			}
		}
		if matched {
			results = append(results, SearchResult{Record: rec.Clone(), Score: best})
		}
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return results, nil
}

// similarityRatio returns 2*LCS(a,b)/(len(a)+len(b)). The ratio is symmetric,
// lies in [0,1] and is 1 only when a and b are equal.
func similarityRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(lcsLength(a, b)) / float64(total)
}

// lcsLength computes the longest common subsequence length with two rolling
// rows.
func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
