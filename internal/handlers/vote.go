package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nmk78/selection/internal/repository"
	"github.com/Nmk78/selection/internal/services"
)

// handleCastBallot handles ballot submissions. Business-rule rejections
// come back as 200 with success=false so the voting page can show the
// message verbatim.
func (h *Handlers) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	var req BallotRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Voting.CastBallot(r.Context(), req.RoomID, req.CandidateID, req.Key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// handleSubmitRatings handles judge rating submissions
func (h *Handlers) handleSubmitRatings(w http.ResponseWriter, r *http.Request) {
	var req RatingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Voting.SubmitRatings(r.Context(), req.RoomID, req.Ratings, req.Key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// handleValidateKey reports a ballot key's usage flags for the active room
func (h *Handlers) handleValidateKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		respondError(w, BadRequest("Missing key parameter"))
		return
	}

	room, err := h.Rooms.ActiveRoom(r.Context())
	if err != nil {
		if err == repository.ErrNotFound {
			// With no active room, no key can be valid
			respondOK(w, &services.KeyStatus{IsValid: false})
			return
		}
		respondError(w, err)
		return
	}

	status, err := h.Voting.ValidateKey(r.Context(), room.ID, key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, status)
}

// handleActiveRoom returns the active room and its round
func (h *Handlers) handleActiveRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.Rooms.ActiveRoom(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toRoomResponse(room))
}

// handleGetCandidates returns a room's candidate roster
func (h *Handlers) handleGetCandidates(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	candidates, err := h.Candidates.ListCandidates(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, candidates)
}

// handleGetScores returns the full combined-score ranking for a room
func (h *Handlers) handleGetScores(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	scored, err := h.Results.ScoredCandidates(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, scored)
}

// handleGetLeaderboard returns the capped public leaderboard for a room
func (h *Handlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	leaderboard, err := h.Results.Leaderboard(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leaderboard)
}

// handleGetTitles returns the title assignments for a room
func (h *Handlers) handleGetTitles(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	titles, err := h.Results.Titles(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, titles)
}

// handleGetEligibility returns the second round shortlist for a room
func (h *Handlers) handleGetEligibility(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	eligibility, err := h.Results.SecondRoundEligibility(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, eligibility)
}
