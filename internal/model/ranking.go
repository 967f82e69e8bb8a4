package model

// RankingEntry is one row of the leaderboard
type RankingEntry struct {
	Key        string // display name, or player id when grouping by identity
	Name       string
	TotalScore int
	GamesCount int
}
