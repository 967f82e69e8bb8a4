package storage

import (
	"context"

	"github.com/mcoot/acs-tournaments/internal/model"
)

// Storage defines the interface for data persistence.
// Implementations are transactional per entity only.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayers(ctx context.Context, ids []model.PlayerID) ([]*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	// AdjustPlayerScore atomically adds delta to the player's score
	AdjustPlayerScore(ctx context.Context, id model.PlayerID, delta int) (*model.Player, error)
	// UpdatePlayerProfile atomically applies fn to the stored player and saves
	// the result. The id and score are kept as stored whatever fn does, so
	// concurrent score adjustments are never overwritten. An error from fn
	// aborts the update.
	UpdatePlayerProfile(ctx context.Context, id model.PlayerID, fn func(*model.Player) error) (*model.Player, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)

	// Tournament operations
	SaveTournament(ctx context.Context, tournament *model.Tournament) error
	GetTournament(ctx context.Context, id model.TournamentID) (*model.Tournament, error)
	ListTournaments(ctx context.Context) ([]*model.Tournament, error)
	DeleteTournament(ctx context.Context, id model.TournamentID) error
}
