package game

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/acs-tournaments/internal/dependencies/clock"
	"github.com/mcoot/acs-tournaments/internal/dependencies/random"
	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/storage"
)

// Service manages the catalogue of games
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new GameService
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateGame adds a game to the catalogue
func (s *Service) CreateGame(ctx context.Context, name, description string) (*model.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}

	game := &model.Game{
		ID:          model.GameID(s.random.NewID()),
		Name:        name,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("name", game.Name),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

// ListGames returns every game
func (s *Service) ListGames(ctx context.Context) ([]*model.Game, error) {
	return s.storage.ListGames(ctx)
}
