package services

import (
	"github.com/Nmk78/selection/internal/errors"
	"github.com/Nmk78/selection/internal/repository"
)

// Rejection messages surfaced verbatim to voters and judges. Business-rule
// rejections travel inside a SubmissionResult, never as Go errors: the
// ledger boundary only returns errors for infrastructure failures.
const (
	MsgNoActiveRound        = "No active round is currently open"
	MsgInvalidKey           = "Invalid secret key"
	MsgKeyAlreadyUsed       = "Key was already used for this round"
	MsgRoundClosed          = "Voting is closed for the current round"
	MsgInvalidCandidate     = "Candidate not found in this round"
	MsgIncompleteRatings    = "Too many candidates were left unrated"
	MsgCandidateNotEligible = "Candidate is not eligible for the second round"

	MsgBallotRecorded  = "Vote recorded"
	MsgRatingsRecorded = "Ratings recorded"
)

// Service errors
var (
	ErrInvalidKeyCount   = &ServiceError{Message: "count must be between 1 and 500"}
	ErrInvalidGender     = &ServiceError{Message: "gender must be male or female"}
	ErrEmptyTitle        = &ServiceError{Message: "room title must not be empty"}
	ErrRoomNotActive     = &ServiceError{Message: "room is not the active room"}
	ErrBaseURLNotSet     = &ServiceError{Message: "base_url is not configured"}
	ErrKeySpaceExhausted = &ServiceError{Message: "could not generate a unique key"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// isNotFound matches both the repository's sentinel and kind-classified
// not-found errors
func isNotFound(err error) bool {
	return err == repository.ErrNotFound || errors.IsKind(err, errors.ErrNotFound)
}
