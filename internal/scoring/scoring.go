// Package scoring turns raw per-candidate vote and rating totals into a
// single comparable combined score. Pure functions, no I/O: the same inputs
// always produce bit-identical output.
package scoring

import "github.com/Nmk78/selection/internal/models"

// Weights for the two signals. Crowd votes carry 60% of the combined score,
// judge ratings the remaining 40%.
const (
	VoteWeight   = 0.6
	RatingWeight = 0.4
)

// Totals holds the raw counters for one candidate
type Totals struct {
	TotalVotes  int
	TotalRating int
}

// ScoredCandidate is a candidate with its raw totals and combined score
// attached. All candidate fields pass through unchanged.
type ScoredCandidate struct {
	models.Candidate
	TotalVotes    int     `json:"total_votes"`
	TotalRating   int     `json:"total_rating"`
	CombinedScore float64 `json:"combined_score"`
}

// Score computes the combined score for every candidate. Each signal is
// normalized to 0-100 against the set's maximum before weighting, so a lone
// candidate with any positive totals scores exactly 100. The max floors at 1
// to keep an all-zero signal at 0 rather than dividing by zero. Candidates
// absent from totals count as zero. Input order is preserved.
func Score(candidates []models.Candidate, totals map[int]Totals) []ScoredCandidate {
	maxVotes := 1
	maxRatings := 1
	for _, c := range candidates {
		t := totals[c.ID]
		if t.TotalVotes > maxVotes {
			maxVotes = t.TotalVotes
		}
		if t.TotalRating > maxRatings {
			maxRatings = t.TotalRating
		}
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		t := totals[c.ID]
		normalizedVotes := float64(t.TotalVotes) / float64(maxVotes) * 100
		normalizedRatings := float64(t.TotalRating) / float64(maxRatings) * 100
		scored = append(scored, ScoredCandidate{
			Candidate:     c,
			TotalVotes:    t.TotalVotes,
			TotalRating:   t.TotalRating,
			CombinedScore: normalizedVotes*VoteWeight + normalizedRatings*RatingWeight,
		})
	}
	return scored
}
