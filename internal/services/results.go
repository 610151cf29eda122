package services

import (
	"context"
	"sort"

	"github.com/Nmk78/selection/internal/logger"
	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/repository"
	"github.com/Nmk78/selection/internal/scoring"
)

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	repository.RoomRepository
	repository.CandidateRepository
	repository.VoteRepository
}

// ResultsService computes leaderboards, titles, and second-round
// advancement. It works against any room ID, so archived rooms rank with
// the same algorithm as the live one.
type ResultsService struct {
	log  logger.Logger
	repo ResultsServiceRepository
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository) *ResultsService {
	return &ResultsService{log: log, repo: repo}
}

// ScoredCandidates returns every candidate in the room with raw totals and
// combined score attached, sorted by combined score descending. Equal
// scores keep their insertion order: the sort is stable and no secondary
// tie-break is applied. An empty room yields an empty slice, not an error.
func (s *ResultsService) ScoredCandidates(ctx context.Context, roomID int) ([]scoring.ScoredCandidate, error) {
	candidates, err := s.repo.ListCandidates(ctx, roomID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetVoteTotals(ctx, roomID)
	if err != nil {
		return nil, err
	}
	totals := make(map[int]scoring.Totals, len(rows))
	for _, row := range rows {
		totals[row.CandidateID] = scoring.Totals{TotalVotes: row.TotalVotes, TotalRating: row.TotalRating}
	}

	scored := scoring.Score(candidates, totals)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CombinedScore > scored[j].CombinedScore
	})
	return scored, nil
}

// Titles holds the final title assignment. A slot is nil when the room has
// too few candidates of that gender to fill it.
type Titles struct {
	King     *scoring.ScoredCandidate `json:"king"`
	Queen    *scoring.ScoredCandidate `json:"queen"`
	Prince   *scoring.ScoredCandidate `json:"prince"`
	Princess *scoring.ScoredCandidate `json:"princess"`
}

// Titles assigns king/prince to the two highest-scored males and
// queen/princess to the two highest-scored females
func (s *ResultsService) Titles(ctx context.Context, roomID int) (*Titles, error) {
	scored, err := s.ScoredCandidates(ctx, roomID)
	if err != nil {
		return nil, err
	}

	males, females := partitionByGender(scored)

	titles := &Titles{}
	if len(males) > 0 {
		titles.King = &males[0]
	}
	if len(males) > 1 {
		titles.Prince = &males[1]
	}
	if len(females) > 0 {
		titles.Queen = &females[0]
	}
	if len(females) > 1 {
		titles.Princess = &females[1]
	}
	return titles, nil
}

// Eligibility lists the candidates advancing to the second round
type Eligibility struct {
	TopMales             []scoring.ScoredCandidate `json:"top_males"`
	TopFemales           []scoring.ScoredCandidate `json:"top_females"`
	EligibleCandidateIDs []int                     `json:"eligible_candidate_ids"`
}

// EligibleForGender reports whether a candidate may receive a second-round
// ballot of the given gender. Membership in the eligible union is required
// but not sufficient: the candidate must also appear on the gender-specific
// advancement list, so a male ballot can never land on a candidate who only
// advanced on the female side.
func (e *Eligibility) EligibleForGender(candidateID int, gender models.Gender) bool {
	inUnion := false
	for _, id := range e.EligibleCandidateIDs {
		if id == candidateID {
			inUnion = true
			break
		}
	}
	if !inUnion {
		return false
	}

	list := e.TopFemales
	if gender == models.GenderMale {
		list = e.TopMales
	}
	for _, c := range list {
		if c.ID == candidateID {
			return true
		}
	}
	return false
}

// SecondRoundEligibility returns the per-gender top-N advancement lists
// using the room's quotas, plus the union of eligible candidate IDs
func (s *ResultsService) SecondRoundEligibility(ctx context.Context, roomID int) (*Eligibility, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	scored, err := s.ScoredCandidates(ctx, roomID)
	if err != nil {
		return nil, err
	}

	males, females := partitionByGender(scored)
	if len(males) > room.MaleForSecondRound {
		males = males[:room.MaleForSecondRound]
	}
	if len(females) > room.FemaleForSecondRound {
		females = females[:room.FemaleForSecondRound]
	}

	eligible := make([]int, 0, len(males)+len(females))
	for _, c := range males {
		eligible = append(eligible, c.ID)
	}
	for _, c := range females {
		eligible = append(eligible, c.ID)
	}

	return &Eligibility{
		TopMales:             males,
		TopFemales:           females,
		EligibleCandidateIDs: eligible,
	}, nil
}

// Leaderboard returns the room's top candidates, capped at the room's
// configured leaderboard size
func (s *ResultsService) Leaderboard(ctx context.Context, roomID int) ([]scoring.ScoredCandidate, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	scored, err := s.ScoredCandidates(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.LeaderboardCandidates > 0 && len(scored) > room.LeaderboardCandidates {
		scored = scored[:room.LeaderboardCandidates]
	}
	return scored, nil
}

// ScoreGroup is a run of candidates sharing the same combined score,
// rendered as tied at the same display rank
type ScoreGroup struct {
	Rank          int                       `json:"rank"`
	CombinedScore float64                   `json:"combined_score"`
	Candidates    []scoring.ScoredCandidate `json:"candidates"`
}

// GroupByScore groups a sorted scored list into tie groups. The rank after
// a tie group resumes at the previous rank plus the group size, so two
// candidates tied at rank 1 are followed by rank 3.
func GroupByScore(scored []scoring.ScoredCandidate) []ScoreGroup {
	var groups []ScoreGroup
	rank := 1
	for i := 0; i < len(scored); {
		j := i
		for j < len(scored) && scored[j].CombinedScore == scored[i].CombinedScore {
			j++
		}
		groups = append(groups, ScoreGroup{
			Rank:          rank,
			CombinedScore: scored[i].CombinedScore,
			Candidates:    scored[i:j],
		})
		rank += j - i
		i = j
	}
	return groups
}

// partitionByGender splits a sorted scored list into male and female
// partitions, preserving order
func partitionByGender(scored []scoring.ScoredCandidate) (males, females []scoring.ScoredCandidate) {
	for _, c := range scored {
		switch c.Gender {
		case models.GenderMale:
			males = append(males, c)
		case models.GenderFemale:
			females = append(females, c)
		}
	}
	return males, females
}
