package teams

import (
	"fmt"
	"slices"

	"github.com/mcoot/acs-tournaments/internal/model"
)

// ValidateTeams checks a manually supplied team structure. Only the shape is
// checked: positive unique team numbers and a player list on every team.
func ValidateTeams(teams []model.Team) error {
	seen := make(map[int]bool, len(teams))
	for i, team := range teams {
		if team.Number < 1 {
			return fmt.Errorf("%w: team %d has no team number", model.ErrInvalidTeam, i)
		}
		if team.Players == nil {
			return fmt.Errorf("%w: team %d has no player list", model.ErrInvalidTeam, team.Number)
		}
		if seen[team.Number] {
			return fmt.Errorf("%w: %d", model.ErrDuplicateTeamNumber, team.Number)
		}
		seen[team.Number] = true
	}
	return nil
}

// ValidateMembership checks that every team member is registered for the
// tournament and sits in exactly one team.
func ValidateMembership(t *model.Tournament, teams []model.Team) error {
	seen := make(map[model.PlayerID]int)
	for _, team := range teams {
		for _, id := range team.Players {
			if !t.IsRegistered(id) {
				return fmt.Errorf("%w: player %s is not registered", model.ErrInvalidTeam, id)
			}
			if other, ok := seen[id]; ok {
				return fmt.Errorf("%w: player %s is in teams %d and %d", model.ErrInvalidTeam, id, other, team.Number)
			}
			seen[id] = team.Number
		}
	}
	return nil
}

// ReplaceTeams swaps the tournament's team list for the given one without
// any balancing. The tournament is left unchanged on any error.
func ReplaceTeams(t *model.Tournament, teams []model.Team) error {
	if t.IsFinished {
		return model.ErrTournamentFinished
	}
	if err := ValidateTeams(teams); err != nil {
		return err
	}
	if err := ValidateMembership(t, teams); err != nil {
		return err
	}

	replaced := make([]model.Team, len(teams))
	for i, team := range teams {
		replaced[i] = model.Team{Number: team.Number, Players: slices.Clone(team.Players)}
	}
	t.Teams = replaced
	return nil
}
