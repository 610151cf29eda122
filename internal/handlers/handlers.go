package handlers

import (
	"github.com/Nmk78/selection/internal/auth"
	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/repository"
	"github.com/Nmk78/selection/internal/services"
	"github.com/Nmk78/selection/internal/websocket"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Rooms      services.RoomServicer
	Candidates services.CandidateServicer
	Voting     services.VotingServicer
	Results    services.ResultsServicer
	Keys       services.KeyServicer
	Stats      repository.StatsRepository
	Auth       *auth.Auth
	Hub        *websocket.Hub
	Log        HTTPLogger
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	rooms services.RoomServicer,
	candidates services.CandidateServicer,
	voting services.VotingServicer,
	results services.ResultsServicer,
	keys services.KeyServicer,
	stats repository.StatsRepository,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Rooms:      rooms,
		Candidates: candidates,
		Voting:     voting,
		Results:    results,
		Keys:       keys,
		Stats:      stats,
		Auth:       adminAuth,
		Hub:        hub,
		Log:        log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance with a known admin password and
// no websocket hub
func NewForTesting(
	rooms services.RoomServicer,
	candidates services.CandidateServicer,
	voting services.VotingServicer,
	results services.ResultsServicer,
	keys services.KeyServicer,
	stats repository.StatsRepository,
) *Handlers {
	return &Handlers{
		Rooms:      rooms,
		Candidates: candidates,
		Voting:     voting,
		Results:    results,
		Keys:       keys,
		Stats:      stats,
		Auth:       auth.New("test-password"),
		Log:        NoopHTTPLogger{},
	}
}

func toRoomResponse(room *models.Room) RoomResponse {
	return RoomResponse{
		ID:                    room.ID,
		Title:                 room.Title,
		Active:                room.Active,
		Round:                 room.Round,
		MaleForSecondRound:    room.MaleForSecondRound,
		FemaleForSecondRound:  room.FemaleForSecondRound,
		LeaderboardCandidates: room.LeaderboardCandidates,
	}
}
