package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/acs-tournaments/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeTournamentNotFound  = "TOURNAMENT_NOT_FOUND"
	CodeTournamentFinished  = "TOURNAMENT_FINISHED"
	CodeNoPlayersRegistered = "NO_PLAYERS_REGISTERED"
	CodeInvalidTeamCount    = "INVALID_TEAM_COUNT"
	CodeNoTeams             = "NO_TEAMS"
	CodeInvalidTeams        = "INVALID_TEAMS"
	CodeWinningTeamNotFound = "WINNING_TEAM_NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeRouteNotFound       = "ROUTE_NOT_FOUND"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, err.Error()}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, err.Error()}}
	case errors.Is(err, model.ErrTournamentNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTournamentNotFound, err.Error()}}
	case errors.Is(err, model.ErrTournamentFinished):
		return &httpError{http.StatusConflict, APIError{CodeTournamentFinished, "Tournament is finished and can no longer be changed"}}
	case errors.Is(err, model.ErrNoPlayersRegistered):
		return &httpError{http.StatusBadRequest, APIError{CodeNoPlayersRegistered, "No players registered for this tournament"}}
	case errors.Is(err, model.ErrInvalidTeamCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTeamCount, err.Error()}}
	case errors.Is(err, model.ErrNoTeams):
		return &httpError{http.StatusBadRequest, APIError{CodeNoTeams, "Tournament has no teams"}}
	case errors.Is(err, model.ErrInvalidTeam), errors.Is(err, model.ErrDuplicateTeamNumber):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTeams, err.Error()}}
	case errors.Is(err, model.ErrWinningTeamNotFound):
		return &httpError{http.StatusBadRequest, APIError{CodeWinningTeamNotFound, err.Error()}}

	// Fall back to the error kind
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, err.Error()}}
	case errors.Is(err, model.ErrStateConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewRouteNotFoundError is returned for paths no route matches
func NewRouteNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeRouteNotFound, "Route not found"}}
}

// NewMethodNotAllowedError is returned when the path matches but the method does not
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, "Method not allowed"}}
}
