package repository

import (
	"context"

	"github.com/Nmk78/selection/internal/models"
)

// RoomRepository defines room data operations
type RoomRepository interface {
	GetRoom(ctx context.Context, id int) (*models.Room, error)
	GetActiveRoom(ctx context.Context) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, title string, maleQuota, femaleQuota, leaderboard int) (int64, error)
	UpdateRoom(ctx context.Context, id int, title string, maleQuota, femaleQuota, leaderboard int) error
	SetRoomRound(ctx context.Context, id int, from, to string) error
}

// CandidateRepository defines candidate data operations
type CandidateRepository interface {
	ListCandidates(ctx context.Context, roomID int) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id int) (*models.Candidate, error)
	CreateCandidate(ctx context.Context, roomID int, gender models.Gender, name, major, bio, profileURL string) (int64, error)
	UpdateCandidate(ctx context.Context, id int, gender models.Gender, name, major, bio, profileURL string) error
	DeleteCandidate(ctx context.Context, id int) error
}

// VoteRepository defines the transactional write paths and counter reads.
// All counter mutations in the system go through CastBallot and
// ApplyRatings; nothing else may touch the vote rows.
type VoteRepository interface {
	GetVoteTotals(ctx context.Context, roomID int) ([]models.VoteTotal, error)
	CastBallot(ctx context.Context, roomID, keyID int, flag models.BallotFlag, candidateID int) error
	ApplyRatings(ctx context.Context, roomID, keyID int, increments []RatingIncrement, snapshot string) error
}

// KeyRepository defines secret and judge key data operations
type KeyRepository interface {
	GetSecretKey(ctx context.Context, roomID int, key string) (*models.SecretKey, error)
	GetSpecialKey(ctx context.Context, roomID int, key string) (*models.SpecialSecretKey, error)
	KeyExists(ctx context.Context, roomID int, key string) (bool, error)
	CreateSecretKeys(ctx context.Context, roomID int, keys []string) error
	CreateSpecialKeys(ctx context.Context, roomID int, keys []string) error
	ListSecretKeys(ctx context.Context, roomID int) ([]models.SecretKey, error)
	ListSpecialKeys(ctx context.Context, roomID int) ([]models.SpecialSecretKey, error)
	CountSpecialKeys(ctx context.Context, roomID int) (int, error)
}

// StatsRepository defines aggregate statistics reads
type StatsRepository interface {
	GetRoomStats(ctx context.Context, roomID int) (map[string]interface{}, error)
}

// FullRepository combines all repository interfaces.
// Use this when a service needs access to multiple domains.
type FullRepository interface {
	RoomRepository
	CandidateRepository
	VoteRepository
	KeyRepository
	StatsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
