package services

import (
	"context"
	"encoding/json"
	"math"

	"github.com/Nmk78/selection/internal/logger"
	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/repository"
	"github.com/Nmk78/selection/internal/rounds"
)

// VotingServiceRepository defines the repository methods needed by VotingService
type VotingServiceRepository interface {
	repository.RoomRepository
	repository.CandidateRepository
	repository.VoteRepository
	repository.KeyRepository
}

// VotingService is the voting ledger: it validates submissions against the
// round state machine and key flags, then hands the accepted mutation to
// the repository's transactional write paths. Business-rule rejections come
// back as SubmissionResult values; a non-nil error always means an
// infrastructure failure.
type VotingService struct {
	log             logger.Logger
	repo            VotingServiceRepository
	results         *ResultsService
	expectedRatings int
	broadcaster     Broadcaster
}

// NewVotingService creates a new VotingService. expectedRatings is the
// exact number of entries a judge submission must carry; at most
// expectedRatings-1 of them may be non-positive.
func NewVotingService(log logger.Logger, repo VotingServiceRepository, results *ResultsService, expectedRatings int) *VotingService {
	if expectedRatings <= 0 {
		expectedRatings = 6
	}
	return &VotingService{
		log:             log,
		repo:            repo,
		results:         results,
		expectedRatings: expectedRatings,
	}
}

// SetBroadcaster sets the broadcaster for live leaderboard updates
func (s *VotingService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SubmissionResult is the structured outcome of a ballot or rating
// submission. Rejections carry Success=false and a voter-facing message.
type SubmissionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func reject(message string) *SubmissionResult {
	return &SubmissionResult{Success: false, Message: message}
}

func accept(message string) *SubmissionResult {
	return &SubmissionResult{Success: true, Message: message}
}

// CastBallot records one ballot for a candidate using a single-use secret
// key. The key's (round, gender) flag and the candidate's vote counter
// mutate in a single transaction, so a retry after a timeout is naturally
// idempotent: a used key is rejected instead of double-counted.
func (s *VotingService) CastBallot(ctx context.Context, roomID, candidateID int, rawKey string) (*SubmissionResult, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		if err == repository.ErrNotFound {
			return reject(MsgNoActiveRound), nil
		}
		return nil, err
	}
	if !room.Active {
		// Archived rooms are frozen history; their keys stop working
		return reject(MsgNoActiveRound), nil
	}

	key, err := s.repo.GetSecretKey(ctx, roomID, models.NormalizeKey(rawKey))
	if err != nil {
		if err == repository.ErrNotFound {
			return reject(MsgInvalidKey), nil
		}
		return nil, err
	}

	round, err := rounds.Parse(room.Round)
	if err != nil || !rounds.AllowsBallots(round) {
		return reject(MsgRoundClosed), nil
	}

	candidate, err := s.repo.GetCandidate(ctx, candidateID)
	if err != nil {
		if isNotFound(err) {
			return reject(MsgInvalidCandidate), nil
		}
		return nil, err
	}
	if candidate.RoomID != roomID {
		return reject(MsgInvalidCandidate), nil
	}

	if rounds.IsSecond(round) {
		eligibility, err := s.results.SecondRoundEligibility(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if !eligibility.EligibleForGender(candidate.ID, candidate.Gender) {
			return reject(MsgCandidateNotEligible), nil
		}
	}

	flag := ballotFlag(round, candidate.Gender)
	if key.FlagSet(flag) {
		return reject(MsgKeyAlreadyUsed), nil
	}

	if err := s.repo.CastBallot(ctx, roomID, key.ID, flag, candidate.ID); err != nil {
		if err == repository.ErrKeyUsed {
			// Lost a race against another submission with the same key
			return reject(MsgKeyAlreadyUsed), nil
		}
		return nil, err
	}

	s.log.Info("Ballot recorded", "room_id", roomID, "candidate_id", candidate.ID, "round", round, "gender", candidate.Gender)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeaderboard(roomID)
	}
	return accept(MsgBallotRecorded), nil
}

// SubmitRatings records a judge's ratings using a one-time special key. All
// per-candidate increments and the key's used flag commit as one unit, with
// the submitted ratings stored verbatim as the judge's receipt. A
// submission must carry exactly expectedRatings entries. Entries with a
// non-positive rating contribute nothing; a submission where nearly all
// entries are non-positive is rejected outright.
func (s *VotingService) SubmitRatings(ctx context.Context, roomID int, ratings []models.Rating, rawKey string) (*SubmissionResult, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		if err == repository.ErrNotFound {
			return reject(MsgNoActiveRound), nil
		}
		return nil, err
	}
	if !room.Active {
		return reject(MsgNoActiveRound), nil
	}

	key, err := s.repo.GetSpecialKey(ctx, roomID, models.NormalizeKey(rawKey))
	if err != nil {
		if err == repository.ErrNotFound {
			return reject(MsgInvalidKey), nil
		}
		return nil, err
	}
	if key.Used {
		return reject(MsgKeyAlreadyUsed), nil
	}

	if len(ratings) != s.expectedRatings {
		return reject(MsgIncompleteRatings), nil
	}
	nonPositive := 0
	for _, r := range ratings {
		if r.Rating <= 0 {
			nonPositive++
		}
	}
	if nonPositive > s.expectedRatings-1 {
		return reject(MsgIncompleteRatings), nil
	}

	specialKeyCount, err := s.repo.CountSpecialKeys(ctx, roomID)
	if err != nil {
		return nil, err
	}
	divisor := math.Max(1, float64(specialKeyCount)/2)

	increments := make([]repository.RatingIncrement, 0, len(ratings))
	for _, r := range ratings {
		if r.Rating <= 0 {
			continue
		}
		candidate, err := s.repo.GetCandidate(ctx, r.CandidateID)
		if err != nil {
			if isNotFound(err) {
				return reject(MsgInvalidCandidate), nil
			}
			return nil, err
		}
		if candidate.RoomID != roomID {
			return reject(MsgInvalidCandidate), nil
		}
		increments = append(increments, repository.RatingIncrement{
			CandidateID: r.CandidateID,
			Scaled:      int(math.Round(float64(r.Rating) / divisor)),
		})
	}

	snapshot, err := json.Marshal(ratings)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ApplyRatings(ctx, roomID, key.ID, increments, string(snapshot)); err != nil {
		if err == repository.ErrKeyUsed {
			return reject(MsgKeyAlreadyUsed), nil
		}
		return nil, err
	}

	s.log.Info("Ratings recorded", "room_id", roomID, "entries", len(increments), "judge_keys", specialKeyCount)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeaderboard(roomID)
	}
	return accept(MsgRatingsRecorded), nil
}

// KeyStatus reports a ballot key's per-round, per-gender usage without
// mutating anything
type KeyStatus struct {
	IsValid               bool `json:"is_valid"`
	MaleVoteFirstRound    bool `json:"male_vote_first_round"`
	FemaleVoteFirstRound  bool `json:"female_vote_first_round"`
	MaleVoteSecondRound   bool `json:"male_vote_second_round"`
	FemaleVoteSecondRound bool `json:"female_vote_second_round"`
}

// ValidateKey looks up a ballot key's usage flags. Unknown keys report
// IsValid=false with all flags clear.
func (s *VotingService) ValidateKey(ctx context.Context, roomID int, rawKey string) (*KeyStatus, error) {
	key, err := s.repo.GetSecretKey(ctx, roomID, models.NormalizeKey(rawKey))
	if err != nil {
		if err == repository.ErrNotFound {
			return &KeyStatus{IsValid: false}, nil
		}
		return nil, err
	}
	return &KeyStatus{
		IsValid:               true,
		MaleVoteFirstRound:    key.FirstRoundMale,
		FemaleVoteFirstRound:  key.FirstRoundFemale,
		MaleVoteSecondRound:   key.SecondRoundMale,
		FemaleVoteSecondRound: key.SecondRoundFemale,
	}, nil
}

// ballotFlag maps a (round, gender) pair to the secret key flag it consumes
func ballotFlag(round rounds.Round, gender models.Gender) models.BallotFlag {
	if rounds.IsSecond(round) {
		if gender == models.GenderMale {
			return models.SecondRoundMale
		}
		return models.SecondRoundFemale
	}
	if gender == models.GenderMale {
		return models.FirstRoundMale
	}
	return models.FirstRoundFemale
}
