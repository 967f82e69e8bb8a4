package model

import (
	"slices"
	"time"
)

// TournamentID uniquely identifies a tournament
type TournamentID string

// Team is a numbered group of players inside a tournament
type Team struct {
	Number  int
	Players []PlayerID
}

// TeamScore is the result of one round for one team
type TeamScore struct {
	TeamNumber int
	Score      int
}

// Tournament groups registered players of one game into teams.
// A finished tournament is immutable.
type Tournament struct {
	ID         TournamentID
	Name       string
	GameID     GameID
	Players    []PlayerID
	Teams      []Team
	IsFinished bool
	WinnerTeam int // 0 until finished
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GetTeam returns the team with the given number, or nil if not found
func (t *Tournament) GetTeam(number int) *Team {
	for i := range t.Teams {
		if t.Teams[i].Number == number {
			return &t.Teams[i]
		}
	}
	return nil
}

// IsRegistered reports whether the player is registered for the tournament
func (t *Tournament) IsRegistered(id PlayerID) bool {
	return slices.Contains(t.Players, id)
}

// Clone returns a deep copy of the tournament
func (t *Tournament) Clone() *Tournament {
	c := *t
	c.Players = slices.Clone(t.Players)
	if t.Teams != nil {
		c.Teams = make([]Team, len(t.Teams))
		for i, team := range t.Teams {
			c.Teams[i] = Team{Number: team.Number, Players: slices.Clone(team.Players)}
		}
	}
	return &c
}

// FinishedTournament is a finished tournament with its winning team resolved
type FinishedTournament struct {
	Tournament   Tournament
	WinningTeam  *Team
	WinningScore int
}
