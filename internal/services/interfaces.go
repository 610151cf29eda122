package services

import (
	"context"

	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/rounds"
	"github.com/Nmk78/selection/internal/scoring"
)

// RoomServicer defines the interface for room operations
type RoomServicer interface {
	CreateRoom(ctx context.Context, params RoomParams) (int64, error)
	ActiveRoom(ctx context.Context) (*models.Room, error)
	GetRoom(ctx context.Context, id int) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	UpdateRoom(ctx context.Context, id int, params RoomParams) error
	AdvanceRound(ctx context.Context, roomID int) (rounds.Round, error)
	SetBroadcaster(b Broadcaster)
}

// CandidateServicer defines the interface for candidate operations
type CandidateServicer interface {
	CreateCandidate(ctx context.Context, roomID int, params CandidateParams) (*models.Candidate, error)
	GetCandidate(ctx context.Context, id int) (*models.Candidate, error)
	ListCandidates(ctx context.Context, roomID int) ([]models.Candidate, error)
	ListCandidatesByGender(ctx context.Context, roomID int, gender models.Gender) ([]models.Candidate, error)
	UpdateCandidate(ctx context.Context, id int, params CandidateParams) (*models.Candidate, error)
	DeleteCandidate(ctx context.Context, id int) error
}

// VotingServicer defines the interface for ballot and rating submissions
type VotingServicer interface {
	CastBallot(ctx context.Context, roomID, candidateID int, rawKey string) (*SubmissionResult, error)
	SubmitRatings(ctx context.Context, roomID int, ratings []models.Rating, rawKey string) (*SubmissionResult, error)
	ValidateKey(ctx context.Context, roomID int, rawKey string) (*KeyStatus, error)
	SetBroadcaster(b Broadcaster)
}

// ResultsServicer defines the interface for scoring and ranking reads
type ResultsServicer interface {
	ScoredCandidates(ctx context.Context, roomID int) ([]scoring.ScoredCandidate, error)
	Titles(ctx context.Context, roomID int) (*Titles, error)
	SecondRoundEligibility(ctx context.Context, roomID int) (*Eligibility, error)
	Leaderboard(ctx context.Context, roomID int) ([]scoring.ScoredCandidate, error)
}

// KeyServicer defines the interface for key issuance operations
type KeyServicer interface {
	GenerateSecretKeys(ctx context.Context, roomID, count int) ([]string, error)
	GenerateSpecialKeys(ctx context.Context, roomID, count int) ([]string, error)
	ListSecretKeys(ctx context.Context, roomID int) ([]models.SecretKey, error)
	ListSpecialKeys(ctx context.Context, roomID int) ([]models.SpecialSecretKey, error)
	KeyQRImage(ctx context.Context, roomID int, key string) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ RoomServicer      = (*RoomService)(nil)
	_ CandidateServicer = (*CandidateService)(nil)
	_ VotingServicer    = (*VotingService)(nil)
	_ ResultsServicer   = (*ResultsService)(nil)
	_ KeyServicer       = (*KeyService)(nil)
)
