package services

import (
	"context"
	"strings"

	"github.com/Nmk78/selection/internal/errors"
	"github.com/Nmk78/selection/internal/logger"
	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/repository"
	"github.com/Nmk78/selection/internal/rounds"
)

// Broadcaster defines the interface for pushing live updates to clients
type Broadcaster interface {
	BroadcastRound(roomID int, round string)
	BroadcastLeaderboard(roomID int)
}

// RoomService handles room lifecycle and round transitions
type RoomService struct {
	log         logger.Logger
	repo        repository.RoomRepository
	broadcaster Broadcaster
}

// NewRoomService creates a new RoomService
func NewRoomService(log logger.Logger, repo repository.RoomRepository) *RoomService {
	return &RoomService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RoomParams carries the admin-editable room fields
type RoomParams struct {
	Title                 string
	MaleForSecondRound    int
	FemaleForSecondRound  int
	LeaderboardCandidates int
}

const (
	defaultSecondRoundQuota = 5
	defaultLeaderboardSize  = 10
)

// CreateRoom creates a new room, activates it, and archives the previously
// active room in the same transaction
func (s *RoomService) CreateRoom(ctx context.Context, params RoomParams) (int64, error) {
	if strings.TrimSpace(params.Title) == "" {
		return 0, ErrEmptyTitle
	}
	if params.MaleForSecondRound <= 0 {
		params.MaleForSecondRound = defaultSecondRoundQuota
	}
	if params.FemaleForSecondRound <= 0 {
		params.FemaleForSecondRound = defaultSecondRoundQuota
	}
	if params.LeaderboardCandidates <= 0 {
		params.LeaderboardCandidates = defaultLeaderboardSize
	}

	id, err := s.repo.CreateRoom(ctx, params.Title,
		params.MaleForSecondRound, params.FemaleForSecondRound, params.LeaderboardCandidates)
	if err != nil {
		return 0, err
	}

	s.log.Info("Room created", "room_id", id, "title", params.Title)
	return id, nil
}

// ActiveRoom returns the single active room.
// Returns repository.ErrNotFound when no room is active.
func (s *RoomService) ActiveRoom(ctx context.Context) (*models.Room, error) {
	return s.repo.GetActiveRoom(ctx)
}

// GetRoom returns a room by ID, active or archived
func (s *RoomService) GetRoom(ctx context.Context, id int) (*models.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

// ListRooms returns all rooms, newest first
func (s *RoomService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.repo.ListRooms(ctx)
}

// UpdateRoom updates metadata on the active room. Archived rooms are frozen.
func (s *RoomService) UpdateRoom(ctx context.Context, id int, params RoomParams) error {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if !room.Active {
		return ErrRoomNotActive
	}
	if strings.TrimSpace(params.Title) == "" {
		return ErrEmptyTitle
	}
	if params.MaleForSecondRound <= 0 {
		params.MaleForSecondRound = room.MaleForSecondRound
	}
	if params.FemaleForSecondRound <= 0 {
		params.FemaleForSecondRound = room.FemaleForSecondRound
	}
	if params.LeaderboardCandidates <= 0 {
		params.LeaderboardCandidates = room.LeaderboardCandidates
	}
	return s.repo.UpdateRoom(ctx, id, params.Title,
		params.MaleForSecondRound, params.FemaleForSecondRound, params.LeaderboardCandidates)
}

// AdvanceRound moves the room exactly one phase forward, wrapping from
// result back to preview. A missing room is a real error, not a structured
// rejection: the admin caller must know the advance did not happen.
func (s *RoomService) AdvanceRound(ctx context.Context, roomID int) (rounds.Round, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", errors.NotFoundf("room %d not found", roomID)
		}
		return "", err
	}

	current, err := rounds.Parse(room.Round)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "room has an invalid round")
	}

	next := rounds.Next(current)
	if err := s.repo.SetRoomRound(ctx, roomID, string(current), string(next)); err != nil {
		if err == repository.ErrRoundChanged {
			return "", errors.Conflict("round was advanced concurrently")
		}
		return "", err
	}

	s.log.Info("Round advanced", "room_id", roomID, "from", current, "to", next)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastRound(roomID, string(next))
	}
	return next, nil
}
