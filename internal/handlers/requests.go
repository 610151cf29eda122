package handlers

import "github.com/Nmk78/selection/internal/models"

// BallotRequest represents a request to cast a ballot
type BallotRequest struct {
	RoomID      int    `json:"room_id"`
	CandidateID int    `json:"candidate_id"`
	Key         string `json:"key"`
}

// RatingsRequest represents a judge's rating submission
type RatingsRequest struct {
	RoomID  int             `json:"room_id"`
	Key     string          `json:"key"`
	Ratings []models.Rating `json:"ratings"`
}

// LoginRequest represents an admin login request
type LoginRequest struct {
	Password string `json:"password"`
}

// RoomCreateRequest represents a request to create a room
type RoomCreateRequest struct {
	Title                 string `json:"title"`
	MaleForSecondRound    int    `json:"male_for_second_round"`
	FemaleForSecondRound  int    `json:"female_for_second_round"`
	LeaderboardCandidates int    `json:"leaderboard_candidates"`
}

// RoomUpdateRequest represents a request to update a room
type RoomUpdateRequest struct {
	Title                 string `json:"title"`
	MaleForSecondRound    int    `json:"male_for_second_round"`
	FemaleForSecondRound  int    `json:"female_for_second_round"`
	LeaderboardCandidates int    `json:"leaderboard_candidates"`
}

// CandidateCreateRequest represents a request to create a candidate
type CandidateCreateRequest struct {
	Gender     string `json:"gender"`
	Name       string `json:"name"`
	Major      string `json:"major"`
	Bio        string `json:"bio"`
	ProfileURL string `json:"profile_url"`
}

// CandidateUpdateRequest represents a request to update a candidate
type CandidateUpdateRequest struct {
	Gender     string `json:"gender"`
	Name       string `json:"name"`
	Major      string `json:"major"`
	Bio        string `json:"bio"`
	ProfileURL string `json:"profile_url"`
}

// KeyGenerateRequest represents a request to generate keys for a room
type KeyGenerateRequest struct {
	Count   int  `json:"count"`
	Special bool `json:"special"`
}
