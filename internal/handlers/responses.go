package handlers

// RoomResponse is the JSON response for room operations
type RoomResponse struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	Active                bool   `json:"active"`
	Round                 string `json:"round"`
	MaleForSecondRound    int    `json:"male_for_second_round"`
	FemaleForSecondRound  int    `json:"female_for_second_round"`
	LeaderboardCandidates int    `json:"leaderboard_candidates"`
}

// RoundResponse is the response for round advancement
type RoundResponse struct {
	RoomID int    `json:"room_id"`
	Round  string `json:"round"`
}

// KeysResponse is the response for key generation
type KeysResponse struct {
	Keys    []string `json:"keys"`
	Special bool     `json:"special"`
}

// LoginResponse is the response for a successful login
type LoginResponse struct {
	Message string `json:"message"`
}
