package player

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/mcoot/acs-tournaments/internal/dependencies/clock"
	"github.com/mcoot/acs-tournaments/internal/dependencies/random"
	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/services/ranking"
	"github.com/mcoot/acs-tournaments/internal/services/scoring"
	"github.com/mcoot/acs-tournaments/internal/storage"
)

// Update holds optional player field changes
type Update struct {
	Name *string
	Tier *model.Tier
}

// Service manages player profiles and the leaderboard
type Service struct {
	storage storage.Storage
	scoring *scoring.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new PlayerService
func New(
	storage storage.Storage,
	scoring *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		scoring: scoring,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreatePlayer creates a player profile with a zero score.
// gameID is optional but must exist when given.
func (s *Service) CreatePlayer(ctx context.Context, name string, tier model.Tier, gameID model.GameID) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}
	if tier < 1 {
		return nil, model.ErrInvalidTier
	}
	if gameID != "" {
		if _, err := s.storage.GetGame(ctx, gameID); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:        model.PlayerID(s.random.NewID()),
		Name:      name,
		Tier:      tier,
		GameID:    gameID,
		Score:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.Int("tier", int(tier)),
		slog.String("game_id", string(gameID)),
	)

	return player, nil
}

// GetPlayer retrieves a player by ID
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// ListPlayers returns every player profile
func (s *Service) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx)
}

// ListPlayersByGame returns the player profiles attached to a game
func (s *Service) ListPlayersByGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(players, func(p *model.Player, _ int) bool {
		return p.GameID == gameID
	}), nil
}

// UpdatePlayer changes a player's name and/or tier
func (s *Service) UpdatePlayer(ctx context.Context, id model.PlayerID, update Update) (*model.Player, error) {
	if update.Name == nil && update.Tier == nil {
		return nil, model.ErrNothingToUpdate
	}

	// The score is left to the store so concurrent adjustments survive
	return s.storage.UpdatePlayerProfile(ctx, id, func(player *model.Player) error {
		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if name == "" {
				return model.ErrNameRequired
			}
			player.Name = name
		}
		if update.Tier != nil {
			if *update.Tier < 1 {
				return model.ErrInvalidTier
			}
			player.Tier = *update.Tier
		}
		player.UpdatedAt = s.clock.Now()
		return nil
	})
}

// AdjustScore adds a signed delta to a player's score
func (s *Service) AdjustScore(ctx context.Context, id model.PlayerID, delta int) (*model.Player, error) {
	return s.scoring.AdjustPlayerScore(ctx, id, delta)
}

// Ranking computes the leaderboard over the whole player store
func (s *Service) Ranking(ctx context.Context, groupBy ranking.GroupBy) ([]model.RankingEntry, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Rank(lo.FromSlicePtr(players), groupBy), nil
}
