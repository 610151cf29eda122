package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Public API
	r.Post("/api/ballot", h.handleCastBallot)
	r.Post("/api/ratings", h.handleSubmitRatings)
	r.Get("/api/room", h.handleActiveRoom)
	r.Get("/api/keys/{key}", h.handleValidateKey)
	r.Get("/api/rooms/{roomID}/candidates", h.handleGetCandidates)
	r.Get("/api/rooms/{roomID}/scores", h.handleGetScores)
	r.Get("/api/rooms/{roomID}/leaderboard", h.handleGetLeaderboard)
	r.Get("/api/rooms/{roomID}/titles", h.handleGetTitles)
	r.Get("/api/rooms/{roomID}/eligibility", h.handleGetEligibility)

	// Auth (public)
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Rooms
		r.Get("/api/admin/rooms", h.handleListRooms)
		r.Post("/api/admin/rooms", h.handleCreateRoom)
		r.Get("/api/admin/rooms/{roomID}", h.handleGetRoom)
		r.Put("/api/admin/rooms/{roomID}", h.handleUpdateRoom)
		r.Post("/api/admin/rooms/{roomID}/advance", h.handleAdvanceRound)

		// Candidates
		r.Post("/api/admin/rooms/{roomID}/candidates", h.handleCreateCandidate)
		r.Put("/api/admin/candidates/{id}", h.handleUpdateCandidate)
		r.Delete("/api/admin/candidates/{id}", h.handleDeleteCandidate)

		// Keys
		r.Post("/api/admin/rooms/{roomID}/keys", h.handleGenerateKeys)
		r.Get("/api/admin/rooms/{roomID}/keys", h.handleListSecretKeys)
		r.Get("/api/admin/rooms/{roomID}/special-keys", h.handleListSpecialKeys)
		r.Get("/api/admin/rooms/{roomID}/keys/{key}/qr", h.handleKeyQRImage)

		// Stats
		r.Get("/api/admin/rooms/{roomID}/stats", h.handleGetStats)
	})

	return r
}
