package model

import "errors"

// Error kinds. Every sentinel below wraps exactly one of these so callers
// can branch on the category with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrStateConflict = errors.New("state conflict")
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = kind(ErrNotFound, "player not found")
	ErrInvalidTier     = kind(ErrInvalidInput, "tier must be a positive integer")
	ErrNameRequired    = kind(ErrInvalidInput, "name is required")
	ErrNothingToUpdate = kind(ErrInvalidInput, "at least one field must be provided")

	// Game errors
	ErrGameNotFound = kind(ErrNotFound, "game not found")

	// Tournament errors
	ErrTournamentNotFound  = kind(ErrNotFound, "tournament not found")
	ErrTournamentFinished  = kind(ErrStateConflict, "tournament is finished")
	ErrNoPlayersRegistered = kind(ErrInvalidInput, "no players registered")
	ErrInvalidTeamCount    = kind(ErrInvalidInput, "team count must be a positive integer")
	ErrNoTeams             = kind(ErrInvalidInput, "tournament has no teams")
	ErrInvalidTeam         = kind(ErrInvalidInput, "invalid team")
	ErrDuplicateTeamNumber = kind(ErrInvalidInput, "duplicate team number")
	ErrWinningTeamNotFound = kind(ErrInvalidInput, "winning team not found in this tournament")
)

type kindError struct {
	kind error
	msg  string
}

func kind(k error, msg string) error {
	return &kindError{kind: k, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
