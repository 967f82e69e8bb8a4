package response

import (
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/services/scoring"
)

// Game represents a game in API responses
type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:          string(g.ID),
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
	}
}

// GamesFromModel converts a list of games
func GamesFromModel(games []*model.Game) []Game {
	return lo.Map(games, func(g *model.Game, _ int) Game { return GameFromModel(g) })
}

// Player represents a player in API responses
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tier      int       `json:"tier"`
	GameID    string    `json:"game_id,omitempty"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:        string(p.ID),
		Name:      p.Name,
		Tier:      int(p.Tier),
		GameID:    string(p.GameID),
		Score:     p.Score,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PlayersFromModel converts a list of players
func PlayersFromModel(players []*model.Player) []Player {
	return lo.Map(players, func(p *model.Player, _ int) Player { return PlayerFromModel(p) })
}

// RankingEntry is one row of the leaderboard
type RankingEntry struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	TotalScore int    `json:"total_score"`
	GamesCount int    `json:"games_count"`
}

// RankingFromModel converts leaderboard entries
func RankingFromModel(entries []model.RankingEntry) []RankingEntry {
	return lo.Map(entries, func(e model.RankingEntry, _ int) RankingEntry {
		return RankingEntry{
			Key:        e.Key,
			Name:       e.Name,
			TotalScore: e.TotalScore,
			GamesCount: e.GamesCount,
		}
	})
}

// Team represents a tournament team
type Team struct {
	TeamNumber int      `json:"team_number"`
	Players    []string `json:"players"`
}

// TeamFromModel converts model.Team
func TeamFromModel(t model.Team) Team {
	return Team{
		TeamNumber: t.Number,
		Players:    lo.Map(t.Players, func(id model.PlayerID, _ int) string { return string(id) }),
	}
}

// Tournament represents a tournament in API responses
type Tournament struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	GameID     string    `json:"game_id,omitempty"`
	Players    []string  `json:"players"`
	Teams      []Team    `json:"teams"`
	IsFinished bool      `json:"is_finished"`
	WinnerTeam *int      `json:"winner_team"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TournamentFromModel converts model.Tournament
func TournamentFromModel(t *model.Tournament) Tournament {
	var winner *int
	if t.IsFinished {
		w := t.WinnerTeam
		winner = &w
	}

	return Tournament{
		ID:         string(t.ID),
		Name:       t.Name,
		GameID:     string(t.GameID),
		Players:    lo.Map(t.Players, func(id model.PlayerID, _ int) string { return string(id) }),
		Teams:      lo.Map(t.Teams, func(team model.Team, _ int) Team { return TeamFromModel(team) }),
		IsFinished: t.IsFinished,
		WinnerTeam: winner,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// TournamentsFromModel converts a list of tournaments
func TournamentsFromModel(tournaments []*model.Tournament) []Tournament {
	return lo.Map(tournaments, func(t *model.Tournament, _ int) Tournament { return TournamentFromModel(t) })
}

// FinishedTournament is a finished tournament with its winners
type FinishedTournament struct {
	Tournament
	WinningTeam  *Team `json:"winning_team"`
	WinningScore int   `json:"winning_score"`
}

// FinishedFromModel converts finished tournament projections
func FinishedFromModel(finished []model.FinishedTournament) []FinishedTournament {
	return lo.Map(finished, func(f model.FinishedTournament, _ int) FinishedTournament {
		var team *Team
		if f.WinningTeam != nil {
			t := TeamFromModel(*f.WinningTeam)
			team = &t
		}
		return FinishedTournament{
			Tournament:   TournamentFromModel(&f.Tournament),
			WinningTeam:  team,
			WinningScore: f.WinningScore,
		}
	})
}

// RecordScoresResponse reports how a score report was applied
type RecordScoresResponse struct {
	AppliedTeams   []int `json:"applied_teams"`
	SkippedTeams   []int `json:"skipped_teams"`
	PlayersUpdated int   `json:"players_updated"`
}

// RecordScoresFromResult converts a scoring.RecordResult
func RecordScoresFromResult(r *scoring.RecordResult) RecordScoresResponse {
	return RecordScoresResponse{
		AppliedTeams:   r.AppliedTeams,
		SkippedTeams:   r.SkippedTeams,
		PlayersUpdated: r.PlayersUpdated,
	}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
