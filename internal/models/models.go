package models

import "strings"

// Gender restricts candidates to the two title tracks
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the known genders
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Room represents one selection event. At most one room is active at a time;
// old rooms are archived (active = false), never deleted.
type Room struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	Active                bool   `json:"active"`
	Round                 string `json:"round"`
	MaleForSecondRound    int    `json:"male_for_second_round"`
	FemaleForSecondRound  int    `json:"female_for_second_round"`
	LeaderboardCandidates int    `json:"leaderboard_candidates"`
	CreatedAt             string `json:"created_at,omitempty"`
}

// Candidate represents a contestant in a room
type Candidate struct {
	ID         int    `json:"id"`
	RoomID     int    `json:"room_id"`
	Gender     Gender `json:"gender"`
	Name       string `json:"name"`
	Major      string `json:"major,omitempty"`
	Bio        string `json:"bio,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// VoteTotal is the aggregate counter row for one (room, candidate) pair.
// Created lazily on the first accepted contribution.
type VoteTotal struct {
	RoomID      int `json:"room_id"`
	CandidateID int `json:"candidate_id"`
	TotalVotes  int `json:"total_votes"`
	TotalRating int `json:"total_rating"`
}

// BallotFlag identifies one of the four independent used flags on a secret
// key. Each flag transitions false -> true exactly once.
type BallotFlag string

const (
	FirstRoundMale    BallotFlag = "first_round_male"
	FirstRoundFemale  BallotFlag = "first_round_female"
	SecondRoundMale   BallotFlag = "second_round_male"
	SecondRoundFemale BallotFlag = "second_round_female"
)

// SecretKey is a single-use ballot key. The male/female flags are
// independent, so one physical key can vote once per gender per round.
type SecretKey struct {
	ID                int    `json:"id"`
	RoomID            int    `json:"room_id"`
	Key               string `json:"key"`
	FirstRoundMale    bool   `json:"first_round_male"`
	FirstRoundFemale  bool   `json:"first_round_female"`
	SecondRoundMale   bool   `json:"second_round_male"`
	SecondRoundFemale bool   `json:"second_round_female"`
}

// FlagSet reports whether the given used flag is already set
func (k *SecretKey) FlagSet(flag BallotFlag) bool {
	switch flag {
	case FirstRoundMale:
		return k.FirstRoundMale
	case FirstRoundFemale:
		return k.FirstRoundFemale
	case SecondRoundMale:
		return k.SecondRoundMale
	case SecondRoundFemale:
		return k.SecondRoundFemale
	}
	return false
}

// SpecialSecretKey is a one-time judge key. Once used it is permanently
// inert; the ratings snapshot is the judge's receipt, never mutated after.
type SpecialSecretKey struct {
	ID      int    `json:"id"`
	RoomID  int    `json:"room_id"`
	Key     string `json:"key"`
	Used    bool   `json:"used"`
	Ratings string `json:"ratings,omitempty"` // JSON snapshot recorded at time of use
	UsedAt  string `json:"used_at,omitempty"`
}

// Rating is a single judge rating entry for one candidate
type Rating struct {
	CandidateID int `json:"candidate_id"`
	Rating      int `json:"rating"`
}

// NormalizeKey canonicalizes a submitted key for lookup and storage.
// Keys are compared case-insensitively with surrounding whitespace ignored.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
