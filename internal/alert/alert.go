package alert

import (
	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/rank"
)

// DefaultThreshold is the minimum score that earns a detailed alert.
const DefaultThreshold = 6.5

// Decide compares every posting against threshold. With none at or above it the result
// is a one-line summary that tells "nothing found" apart from "nothing good enough";
// otherwise it carries all qualifying postings, best first.
func Decide(postings []model.Posting, threshold float64) model.Decision {
	d := model.Decision{
		Threshold:  threshold,
		Found:      len(postings),
		Qualifying: []model.Posting{},
	}

	var qualifying []model.Posting
	for _, p := range postings {
		if p.Score >= threshold {
			qualifying = append(qualifying, p)
		}
	}

	switch {
	case len(postings) == 0:
		d.Kind = model.AlertNoPostings
	case len(qualifying) == 0:
		d.Kind = model.AlertNoneQualified
	default:
		d.Kind = model.AlertDetailed
		d.Qualifying = rank.SortByScore(qualifying)
	}
	return d
}
