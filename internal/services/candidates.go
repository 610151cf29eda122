package services

import (
	"context"
	"strings"

	"github.com/Nmk78/selection/internal/logger"
	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/repository"
)

// CandidateServiceRepository defines the repository methods needed by CandidateService
type CandidateServiceRepository interface {
	repository.RoomRepository
	repository.CandidateRepository
}

// CandidateService manages the candidate roster. Mutations are restricted
// to the active room so archived results stay frozen.
type CandidateService struct {
	log  logger.Logger
	repo CandidateServiceRepository
}

// NewCandidateService creates a new CandidateService
func NewCandidateService(log logger.Logger, repo CandidateServiceRepository) *CandidateService {
	return &CandidateService{log: log, repo: repo}
}

// CandidateParams holds the mutable fields of a candidate
type CandidateParams struct {
	Gender     models.Gender
	Name       string
	Major      string
	Bio        string
	ProfileURL string
}

func (p *CandidateParams) validate() error {
	if !p.Gender.Valid() {
		return ErrInvalidGender
	}
	if strings.TrimSpace(p.Name) == "" {
		return &ServiceError{Message: "candidate name must not be empty"}
	}
	return nil
}

// CreateCandidate adds a candidate to the active room
func (s *CandidateService) CreateCandidate(ctx context.Context, roomID int, params CandidateParams) (*models.Candidate, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Active {
		return nil, ErrRoomNotActive
	}

	id, err := s.repo.CreateCandidate(ctx, roomID, params.Gender, strings.TrimSpace(params.Name), params.Major, params.Bio, params.ProfileURL)
	if err != nil {
		return nil, err
	}
	s.log.Info("Candidate created", "room_id", roomID, "candidate_id", id, "name", params.Name, "gender", params.Gender)
	return s.repo.GetCandidate(ctx, int(id))
}

// GetCandidate returns a single candidate
func (s *CandidateService) GetCandidate(ctx context.Context, id int) (*models.Candidate, error) {
	return s.repo.GetCandidate(ctx, id)
}

// ListCandidates returns all candidates in a room
func (s *CandidateService) ListCandidates(ctx context.Context, roomID int) ([]models.Candidate, error) {
	return s.repo.ListCandidates(ctx, roomID)
}

// ListCandidatesByGender returns a room's candidates of one gender
func (s *CandidateService) ListCandidatesByGender(ctx context.Context, roomID int, gender models.Gender) ([]models.Candidate, error) {
	if !gender.Valid() {
		return nil, ErrInvalidGender
	}
	all, err := s.repo.ListCandidates(ctx, roomID)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Candidate, 0, len(all))
	for _, c := range all {
		if c.Gender == gender {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// UpdateCandidate updates a candidate in the active room
func (s *CandidateService) UpdateCandidate(ctx context.Context, id int, params CandidateParams) (*models.Candidate, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	candidate, err := s.repo.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	room, err := s.repo.GetRoom(ctx, candidate.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.Active {
		return nil, ErrRoomNotActive
	}

	name := strings.TrimSpace(params.Name)
	if err := s.repo.UpdateCandidate(ctx, id, params.Gender, name, params.Major, params.Bio, params.ProfileURL); err != nil {
		return nil, err
	}
	s.log.Info("Candidate updated", "candidate_id", id)
	return s.repo.GetCandidate(ctx, id)
}

// DeleteCandidate removes a candidate from the active room. Vote rows for
// the candidate are removed with it.
func (s *CandidateService) DeleteCandidate(ctx context.Context, id int) error {
	candidate, err := s.repo.GetCandidate(ctx, id)
	if err != nil {
		return err
	}
	room, err := s.repo.GetRoom(ctx, candidate.RoomID)
	if err != nil {
		return err
	}
	if !room.Active {
		return ErrRoomNotActive
	}
	if err := s.repo.DeleteCandidate(ctx, id); err != nil {
		return err
	}
	s.log.Info("Candidate deleted", "candidate_id", id, "name", candidate.Name)
	return nil
}
