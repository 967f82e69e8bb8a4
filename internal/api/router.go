package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mcoot/acs-tournaments/internal/api/apierr"
	"github.com/mcoot/acs-tournaments/internal/api/handler"
	"github.com/mcoot/acs-tournaments/internal/api/middleware"
	"github.com/mcoot/acs-tournaments/internal/api/response"
	"github.com/mcoot/acs-tournaments/internal/metrics"
	"github.com/mcoot/acs-tournaments/internal/services/game"
	"github.com/mcoot/acs-tournaments/internal/services/player"
	"github.com/mcoot/acs-tournaments/internal/services/teams"
	"github.com/mcoot/acs-tournaments/internal/services/tournament"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger               *slog.Logger
	GameService          *game.Service
	PlayerService        *player.Service
	TournamentController *tournament.Controller
	Metrics              *metrics.Metrics
	// DefaultTeamCount is used when a generate request has no usable count.
	// Zero means teams.DefaultTeamCount.
	DefaultTeamCount int
	// MaxTeamCount caps generate requests. Zero means teams.DefaultMaxTeamCount.
	MaxTeamCount int
	// CORSOrigins lists allowed origins. Empty disables CORS headers.
	CORSOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewRouteNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	defaultTeamCount := cfg.DefaultTeamCount
	if defaultTeamCount <= 0 {
		defaultTeamCount = teams.DefaultTeamCount
	}
	maxTeamCount := cfg.MaxTeamCount
	if maxTeamCount <= 0 {
		maxTeamCount = teams.DefaultMaxTeamCount
	}

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameService)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	tournamentHandler := handler.NewTournamentHandler(cfg.TournamentController, defaultTeamCount, maxTeamCount)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)

	// Player routes (ranking before {id} so it is not captured as an id)
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/ranking", playerHandler.Ranking).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Update).Methods(http.MethodPatch)
	api.HandleFunc("/players/{id}/score", playerHandler.AdjustScore).Methods(http.MethodPost)

	// Tournament routes
	tournaments := api.PathPrefix("/tournaments").Subrouter()
	tournaments.HandleFunc("", tournamentHandler.Create).Methods(http.MethodPost)
	tournaments.HandleFunc("", tournamentHandler.List).Methods(http.MethodGet)
	tournaments.HandleFunc("/finished", tournamentHandler.ListFinished).Methods(http.MethodGet)
	tournaments.HandleFunc("/{id}", tournamentHandler.Get).Methods(http.MethodGet)
	tournaments.HandleFunc("/{id}", tournamentHandler.Update).Methods(http.MethodPatch)
	tournaments.HandleFunc("/{id}", tournamentHandler.Delete).Methods(http.MethodDelete)
	tournaments.HandleFunc("/{id}/players", tournamentHandler.RegisterPlayers).Methods(http.MethodPut)
	tournaments.HandleFunc("/{id}/teams/generate", tournamentHandler.GenerateTeams).Methods(http.MethodPost)
	tournaments.HandleFunc("/{id}/teams", tournamentHandler.ReplaceTeams).Methods(http.MethodPut)
	tournaments.HandleFunc("/{id}/scores", tournamentHandler.RecordScores).Methods(http.MethodPost)
	tournaments.HandleFunc("/{id}/finish", tournamentHandler.Finish).Methods(http.MethodPost)

	// Health check and metrics
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	if len(cfg.CORSOrigins) == 0 {
		return r
	}
	return handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept"}),
	)(r)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
