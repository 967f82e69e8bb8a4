package redis

import (
	"fmt"

	"github.com/mcoot/acs-tournaments/internal/model"
)

// keys builds Redis keys under a common prefix
type keys struct {
	prefix string
}

// player returns the Redis key for a Player
func (k keys) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, id)
}

// players returns the Redis key for the SET of all player keys
func (k keys) players() string {
	return fmt.Sprintf("%s:idx:players", k.prefix)
}

// game returns the Redis key for a Game
func (k keys) game(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", k.prefix, id)
}

// games returns the Redis key for the SET of all game keys
func (k keys) games() string {
	return fmt.Sprintf("%s:idx:games", k.prefix)
}

// tournament returns the Redis key for a Tournament
func (k keys) tournament(id model.TournamentID) string {
	return fmt.Sprintf("%s:tournament:%s", k.prefix, id)
}

// tournaments returns the Redis key for the SET of all tournament keys
func (k keys) tournaments() string {
	return fmt.Sprintf("%s:idx:tournaments", k.prefix)
}
