package rank

import (
	"sort"

	"github.com/amishk599/jobscout/internal/model"
)

// DefaultTopN is how many postings the report shows.
const DefaultTopN = 15

// Rank returns up to n postings ordered by score, highest first. Equal scores keep their
// input order. The input slice is not modified.
func Rank(postings []model.Posting, n int) []model.Posting {
	sorted := SortByScore(postings)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SortByScore returns a copy of postings stable-sorted by score descending.
func SortByScore(postings []model.Posting) []model.Posting {
	sorted := make([]model.Posting, len(postings))
	copy(sorted, postings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}
