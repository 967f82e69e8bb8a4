package model

import "time"

// GameID uniquely identifies a game title
type GameID string

// Game is a title that players and tournaments are attached to
type Game struct {
	ID          GameID
	Name        string
	Description string
	CreatedAt   time.Time
}
