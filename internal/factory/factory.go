package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/acs-tournaments/internal/dependencies/clock"
	"github.com/mcoot/acs-tournaments/internal/dependencies/random"
	"github.com/mcoot/acs-tournaments/internal/metrics"
	"github.com/mcoot/acs-tournaments/internal/services/game"
	"github.com/mcoot/acs-tournaments/internal/services/player"
	"github.com/mcoot/acs-tournaments/internal/services/scoring"
	"github.com/mcoot/acs-tournaments/internal/services/teams"
	"github.com/mcoot/acs-tournaments/internal/services/tournament"
	"github.com/mcoot/acs-tournaments/internal/storage"
	"github.com/mcoot/acs-tournaments/internal/storage/memory"
	redisstorage "github.com/mcoot/acs-tournaments/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Observability
	Metrics *metrics.Metrics

	// Services
	TeamsService         *teams.Service
	ScoringService       *scoring.Service
	PlayerService        *player.Service
	GameService          *game.Service
	TournamentController *tournament.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RuntimeMetrics adds Go runtime and process collectors to the registry
	RuntimeMetrics bool
	// MaxTeamCount caps team generation (optional, defaults to teams.DefaultMaxTeamCount)
	MaxTeamCount int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	m := metrics.New()
	if cfg.RuntimeMetrics {
		m = m.WithRuntimeCollectors()
	}

	app := newWithDependencies(store, clock.New(), random.New(), m, logger)
	app.TeamsService.WithMaxTeamCount(cfg.MaxTeamCount)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, m *metrics.Metrics, logger *slog.Logger) *App {
	teamsService := teams.New(rnd)
	scoringService := scoring.New(store, m, logger)
	playerService := player.New(store, scoringService, clk, rnd, logger)
	gameService := game.New(store, clk, rnd, logger)
	tournamentController := tournament.NewController(store, teamsService, scoringService, clk, rnd, m, logger)

	return &App{
		Storage:              store,
		Clock:                clk,
		Random:               rnd,
		Metrics:              m,
		TeamsService:         teamsService,
		ScoringService:       scoringService,
		PlayerService:        playerService,
		GameService:          gameService,
		TournamentController: tournamentController,
	}
}
