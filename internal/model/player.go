package model

import "time"

// PlayerID uniquely identifies a player profile
type PlayerID string

// Tier is an ordered skill category. Lower values are stronger.
type Tier int

// Player is a per-game player profile with a cumulative score
type Player struct {
	ID        PlayerID
	Name      string
	Tier      Tier
	GameID    GameID
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerIDs returns the ids of the given players, preserving order
func PlayerIDs(players []Player) []PlayerID {
	ids := make([]PlayerID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}
