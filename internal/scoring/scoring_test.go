package scoring_test

import (
	"math"
	"testing"

	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/scoring"
)

func candidate(id int, gender models.Gender, name string) models.Candidate {
	return models.Candidate{ID: id, RoomID: 1, Gender: gender, Name: name}
}

// TestScore_EmptyInput tests that an empty roster scores to an empty slice
func TestScore_EmptyInput(t *testing.T) {
	scored := scoring.Score(nil, nil)
	if len(scored) != 0 {
		t.Errorf("expected empty result, got %d entries", len(scored))
	}
}

// TestScore_AllZero tests that an all-zero signal stays at zero instead of
// dividing by zero
func TestScore_AllZero(t *testing.T) {
	candidates := []models.Candidate{
		candidate(1, models.GenderMale, "A"),
		candidate(2, models.GenderFemale, "B"),
	}

	scored := scoring.Score(candidates, map[int]scoring.Totals{})
	for _, c := range scored {
		if c.CombinedScore != 0 {
			t.Errorf("candidate %d: expected score 0, got %f", c.ID, c.CombinedScore)
		}
	}
}

// TestScore_TopCandidateInBothSignals tests that the candidate leading both
// signals scores exactly 100
func TestScore_TopCandidateInBothSignals(t *testing.T) {
	candidates := []models.Candidate{
		candidate(1, models.GenderMale, "A"),
		candidate(2, models.GenderMale, "B"),
	}
	totals := map[int]scoring.Totals{
		1: {TotalVotes: 40, TotalRating: 90},
		2: {TotalVotes: 10, TotalRating: 45},
	}

	scored := scoring.Score(candidates, totals)
	if scored[0].CombinedScore != 100.0 {
		t.Errorf("expected exactly 100.0 for the leader, got %f", scored[0].CombinedScore)
	}
}

// TestScore_WorkedExample tests the normalization against hand-computed
// values: votes 40/10/5 and ratings 90/45/9 across three candidates
func TestScore_WorkedExample(t *testing.T) {
	candidates := []models.Candidate{
		candidate(1, models.GenderMale, "A"),
		candidate(2, models.GenderMale, "B"),
		candidate(3, models.GenderMale, "C"),
	}
	totals := map[int]scoring.Totals{
		1: {TotalVotes: 40, TotalRating: 90},
		2: {TotalVotes: 10, TotalRating: 45},
		3: {TotalVotes: 5, TotalRating: 9},
	}

	scored := scoring.Score(candidates, totals)

	want := []float64{
		100.0,                                   // 100*0.6 + 100*0.4
		10.0/40.0*100*0.6 + 45.0/90.0*100*0.4,   // 15 + 20 = 35
		5.0/40.0*100*0.6 + 9.0/90.0*100*0.4,     // 7.5 + 4 = 11.5
	}
	for i, c := range scored {
		if math.Abs(c.CombinedScore-want[i]) > 1e-9 {
			t.Errorf("candidate %d: expected score %f, got %f", c.ID, want[i], c.CombinedScore)
		}
	}
}

// TestScore_MissingTotalsCountAsZero tests that candidates absent from the
// totals map score zero
func TestScore_MissingTotalsCountAsZero(t *testing.T) {
	candidates := []models.Candidate{
		candidate(1, models.GenderMale, "A"),
		candidate(2, models.GenderMale, "B"),
	}
	totals := map[int]scoring.Totals{
		1: {TotalVotes: 7, TotalRating: 3},
	}

	scored := scoring.Score(candidates, totals)
	if scored[1].CombinedScore != 0 {
		t.Errorf("expected 0 for candidate with no rows, got %f", scored[1].CombinedScore)
	}
	if scored[1].TotalVotes != 0 || scored[1].TotalRating != 0 {
		t.Errorf("expected zero raw totals, got %d votes %d rating", scored[1].TotalVotes, scored[1].TotalRating)
	}
}

// TestScore_PreservesInputOrder tests that ordering is left to the caller
func TestScore_PreservesInputOrder(t *testing.T) {
	candidates := []models.Candidate{
		candidate(3, models.GenderMale, "C"),
		candidate(1, models.GenderMale, "A"),
		candidate(2, models.GenderMale, "B"),
	}
	totals := map[int]scoring.Totals{
		1: {TotalVotes: 40},
		2: {TotalVotes: 10},
		3: {TotalVotes: 5},
	}

	scored := scoring.Score(candidates, totals)
	wantOrder := []int{3, 1, 2}
	for i, c := range scored {
		if c.ID != wantOrder[i] {
			t.Errorf("position %d: expected candidate %d, got %d", i, wantOrder[i], c.ID)
		}
	}
}

// TestScore_Deterministic tests that repeated runs over the same input
// produce identical scores
func TestScore_Deterministic(t *testing.T) {
	candidates := []models.Candidate{
		candidate(1, models.GenderMale, "A"),
		candidate(2, models.GenderFemale, "B"),
		candidate(3, models.GenderMale, "C"),
	}
	totals := map[int]scoring.Totals{
		1: {TotalVotes: 13, TotalRating: 7},
		2: {TotalVotes: 29, TotalRating: 31},
		3: {TotalVotes: 2, TotalRating: 19},
	}

	first := scoring.Score(candidates, totals)
	for run := 0; run < 100; run++ {
		again := scoring.Score(candidates, totals)
		for i := range first {
			if first[i].CombinedScore != again[i].CombinedScore {
				t.Fatalf("run %d: candidate %d score drifted from %v to %v",
					run, first[i].ID, first[i].CombinedScore, again[i].CombinedScore)
			}
		}
	}
}
