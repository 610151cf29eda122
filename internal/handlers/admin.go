package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nmk78/selection/internal/auth"
	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/services"
)

// handleLogin processes an admin login and sets the session cookie
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, LoginResponse{Message: "Logged in"})
}

// handleLogout clears the session
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}
	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// Room management

func (h *Handlers) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Rooms.ListRooms(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResponse(&rooms[i]))
	}
	respondOK(w, out)
}

func (h *Handlers) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	room, err := h.Rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toRoomResponse(room))
}

// handleCreateRoom creates a room and makes it the active one
func (h *Handlers) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req RoomCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	id, err := h.Rooms.CreateRoom(r.Context(), services.RoomParams{
		Title:                 req.Title,
		MaleForSecondRound:    req.MaleForSecondRound,
		FemaleForSecondRound:  req.FemaleForSecondRound,
		LeaderboardCandidates: req.LeaderboardCandidates,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	room, err := h.Rooms.GetRoom(r.Context(), int(id))
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, toRoomResponse(room))
}

func (h *Handlers) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req RoomUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Rooms.UpdateRoom(r.Context(), roomID, services.RoomParams{
		Title:                 req.Title,
		MaleForSecondRound:    req.MaleForSecondRound,
		FemaleForSecondRound:  req.FemaleForSecondRound,
		LeaderboardCandidates: req.LeaderboardCandidates,
	}); err != nil {
		respondError(w, err)
		return
	}

	room, err := h.Rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toRoomResponse(room))
}

// handleAdvanceRound moves a room to its next round
func (h *Handlers) handleAdvanceRound(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	round, err := h.Rooms.AdvanceRound(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, RoundResponse{RoomID: roomID, Round: string(round)})
}

// Candidate management

func (h *Handlers) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req CandidateCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	candidate, err := h.Candidates.CreateCandidate(r.Context(), roomID, services.CandidateParams{
		Gender:     models.Gender(req.Gender),
		Name:       req.Name,
		Major:      req.Major,
		Bio:        req.Bio,
		ProfileURL: req.ProfileURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, candidate)
}

func (h *Handlers) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req CandidateUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	candidate, err := h.Candidates.UpdateCandidate(r.Context(), id, services.CandidateParams{
		Gender:     models.Gender(req.Gender),
		Name:       req.Name,
		Major:      req.Major,
		Bio:        req.Bio,
		ProfileURL: req.ProfileURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, candidate)
}

func (h *Handlers) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Candidates.DeleteCandidate(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// Key management

// handleGenerateKeys mints a batch of ballot or judge keys for a room
func (h *Handlers) handleGenerateKeys(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req KeyGenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	var keys []string
	if req.Special {
		keys, err = h.Keys.GenerateSpecialKeys(r.Context(), roomID, req.Count)
	} else {
		keys, err = h.Keys.GenerateSecretKeys(r.Context(), roomID, req.Count)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, KeysResponse{Keys: keys, Special: req.Special})
}

func (h *Handlers) handleListSecretKeys(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	keys, err := h.Keys.ListSecretKeys(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, keys)
}

func (h *Handlers) handleListSpecialKeys(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	keys, err := h.Keys.ListSpecialKeys(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, keys)
}

// handleKeyQRImage serves a key's voting URL as a QR code PNG
func (h *Handlers) handleKeyQRImage(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	key := chi.URLParam(r, "key")
	if key == "" {
		respondError(w, BadRequest("Missing key parameter"))
		return
	}

	png, err := h.Keys.KeyQRImage(r.Context(), roomID, key)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Stats

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseIntParam(r, "roomID")
	if err != nil {
		respondError(w, err)
		return
	}
	stats, err := h.Stats.GetRoomStats(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}
