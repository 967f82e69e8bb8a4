package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mcoot/acs-tournaments/internal/model"
)

// CreateGameRequest is the request body for adding a game
type CreateGameRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreatePlayerRequest is the request body for creating a player
type CreatePlayerRequest struct {
	Name   string `json:"name" validate:"required"`
	Tier   int    `json:"tier" validate:"min=1"`
	GameID string `json:"game_id"`
}

// UpdatePlayerRequest is the request body for editing a player.
// At least one field must be present.
type UpdatePlayerRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1"`
	Tier *int    `json:"tier" validate:"omitempty,min=1"`
}

// AdjustScoreRequest is the request body for a single-player score correction
type AdjustScoreRequest struct {
	Adjustment *int `json:"adjustment" validate:"required"`
}

// CreateTournamentRequest is the request body for creating a tournament
type CreateTournamentRequest struct {
	Name    string      `json:"name" validate:"required"`
	GameID  string      `json:"game_id"`
	Players []PlayerRef `json:"players"`
}

// UpdateTournamentRequest is the request body for editing a tournament
type UpdateTournamentRequest struct {
	Name    *string      `json:"name" validate:"omitempty,min=1"`
	GameID  *string      `json:"game_id" validate:"omitempty,min=1"`
	Players *[]PlayerRef `json:"players"`
}

// RegisterPlayersRequest is the request body for replacing registrations
type RegisterPlayersRequest struct {
	Players []PlayerRef `json:"players" validate:"required"`
}

// GenerateTeamsRequest is the request body for team generation
type GenerateTeamsRequest struct {
	NumberOfTeams TeamCount `json:"number_of_teams"`
}

// ReplaceTeamsRequest is the request body for setting teams by hand
type ReplaceTeamsRequest struct {
	Teams []TeamRequest `json:"teams" validate:"required,dive"`
}

// TeamRequest is one team in a ReplaceTeamsRequest
type TeamRequest struct {
	TeamNumber int         `json:"team_number" validate:"min=1"`
	Players    []PlayerRef `json:"players" validate:"required"`
}

// RecordScoresRequest is the request body for one round of team results
type RecordScoresRequest struct {
	Scores []TeamScoreRequest `json:"scores" validate:"required,dive"`
}

// TeamScoreRequest is one team's result
type TeamScoreRequest struct {
	TeamNumber int  `json:"team_number"`
	Score      *int `json:"score" validate:"required"`
}

// FinishTournamentRequest is the request body for finishing a tournament
type FinishTournamentRequest struct {
	WinningTeam int `json:"winning_team" validate:"min=1"`
}

// PlayerRef is a player reference given either as a bare id string or as
// an embedded player object carrying an "id" field
type PlayerRef model.PlayerID

// UnmarshalJSON accepts "id" or {"id": "..."}
func (p *PlayerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.ID == "" {
			return errors.New("player object has no id")
		}
		*p = PlayerRef(obj.ID)
		return nil
	}

	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return errors.New("player must be an id string or an object with an id")
	}
	if id == "" {
		return errors.New("player id is empty")
	}
	*p = PlayerRef(id)
	return nil
}

// PlayerIDs converts references to player ids
func PlayerIDs(refs []PlayerRef) []model.PlayerID {
	return lo.Map(refs, func(ref PlayerRef, _ int) model.PlayerID {
		return model.PlayerID(ref)
	})
}

// TeamCount is a team count given as a JSON number or a numeric string.
// Anything unparseable decodes to zero, which Resolve treats as unset.
type TeamCount int

// UnmarshalJSON accepts 3, 3.0 or "3". Numbers that do not fit in an int
// are rejected with model.ErrInvalidTeamCount.
func (c *TeamCount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			*c = 0
			return nil
		}
		v = math.Trunc(v)
		// float64(math.MaxInt) rounds up to 2^63, which is already out of range
		if v >= float64(math.MaxInt) || v < float64(math.MinInt) {
			return fmt.Errorf("%w: %g is out of range", model.ErrInvalidTeamCount, v)
		}
		*c = TeamCount(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if errors.Is(err, strconv.ErrRange) {
			return fmt.Errorf("%w: %q is out of range", model.ErrInvalidTeamCount, v)
		}
		if err != nil {
			n = 0
		}
		*c = TeamCount(n)
	default:
		*c = 0
	}
	return nil
}

// Resolve returns the count, or fallback when it is unset
func (c TeamCount) Resolve(fallback int) int {
	if c == 0 {
		return fallback
	}
	return int(c)
}
