package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/mcoot/acs-tournaments/internal/dependencies/clock"
	"github.com/mcoot/acs-tournaments/internal/dependencies/random"
	"github.com/mcoot/acs-tournaments/internal/metrics"
	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/services/scoring"
	"github.com/mcoot/acs-tournaments/internal/services/teams"
	"github.com/mcoot/acs-tournaments/internal/storage"
)

// Update holds optional tournament field changes
type Update struct {
	Name      *string
	GameID    *model.GameID
	PlayerIDs []model.PlayerID // nil leaves registrations unchanged
}

// Controller manages the tournament lifecycle. Mutations on one tournament
// are serialized; different tournaments proceed independently.
type Controller struct {
	storage storage.Storage
	teams   *teams.Service
	scoring *scoring.Service
	clock   clock.Clock
	random  random.Random
	metrics *metrics.Metrics
	logger  *slog.Logger
	locks   *lockMap
}

// NewController creates a new TournamentController
func NewController(
	storage storage.Storage,
	teams *teams.Service,
	scoring *scoring.Service,
	clock clock.Clock,
	random random.Random,
	metrics *metrics.Metrics,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		teams:   teams,
		scoring: scoring,
		clock:   clock,
		random:  random,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "tournament")),
		locks:   newLockMap(),
	}
}

// CreateTournament creates an unfinished tournament with no teams
func (c *Controller) CreateTournament(ctx context.Context, name string, gameID model.GameID, playerIDs []model.PlayerID) (*model.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}
	if gameID != "" {
		if _, err := c.storage.GetGame(ctx, gameID); err != nil {
			return nil, err
		}
	}
	players, err := c.resolvePlayers(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	tournament := &model.Tournament{
		ID:        model.TournamentID(c.random.NewID()),
		Name:      name,
		GameID:    gameID,
		Players:   players,
		Teams:     []model.Team{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveTournament(ctx, tournament); err != nil {
		return nil, err
	}

	c.logger.Info("tournament created",
		slog.String("tournament_id", string(tournament.ID)),
		slog.String("game_id", string(gameID)),
		slog.Int("player_count", len(players)),
	)

	return tournament, nil
}

// GetTournament retrieves a tournament by ID
func (c *Controller) GetTournament(ctx context.Context, id model.TournamentID) (*model.Tournament, error) {
	return c.storage.GetTournament(ctx, id)
}

// ListTournaments returns every tournament
func (c *Controller) ListTournaments(ctx context.Context) ([]*model.Tournament, error) {
	return c.storage.ListTournaments(ctx)
}

// ListFinished returns finished tournaments with their winning team and the
// winning team's current combined score
func (c *Controller) ListFinished(ctx context.Context) ([]model.FinishedTournament, error) {
	tournaments, err := c.storage.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}

	finished := []model.FinishedTournament{}
	for _, t := range tournaments {
		if !t.IsFinished {
			continue
		}

		entry := model.FinishedTournament{Tournament: *t}
		if team := t.GetTeam(t.WinnerTeam); team != nil {
			players, err := c.storage.GetPlayers(ctx, team.Players)
			if err != nil {
				return nil, fmt.Errorf("load winning team of %s: %w", t.ID, err)
			}
			entry.WinningTeam = team
			entry.WinningScore = lo.SumBy(players, func(p *model.Player) int { return p.Score })
		}
		finished = append(finished, entry)
	}

	return finished, nil
}

// RegisterPlayers replaces the tournament's registered players. Team members
// who are no longer registered are removed from their teams.
func (c *Controller) RegisterPlayers(ctx context.Context, id model.TournamentID, playerIDs []model.PlayerID) (*model.Tournament, error) {
	return c.UpdateTournament(ctx, id, Update{PlayerIDs: lo.Ternary(playerIDs == nil, []model.PlayerID{}, playerIDs)})
}

// UpdateTournament edits an unfinished tournament
func (c *Controller) UpdateTournament(ctx context.Context, id model.TournamentID, update Update) (*model.Tournament, error) {
	if update.Name == nil && update.GameID == nil && update.PlayerIDs == nil {
		return nil, model.ErrNothingToUpdate
	}

	unlock := c.locks.lock(id)
	defer unlock()

	t, err := c.mutable(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, model.ErrNameRequired
		}
		t.Name = name
	}
	if update.GameID != nil {
		if _, err := c.storage.GetGame(ctx, *update.GameID); err != nil {
			return nil, err
		}
		t.GameID = *update.GameID
	}
	if update.PlayerIDs != nil {
		players, err := c.resolvePlayers(ctx, update.PlayerIDs)
		if err != nil {
			return nil, err
		}
		t.Players = players
		for i := range t.Teams {
			t.Teams[i].Players = lo.Filter(t.Teams[i].Players, func(p model.PlayerID, _ int) bool {
				return t.IsRegistered(p)
			})
		}
	}
	t.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveTournament(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTournament removes an unfinished tournament
func (c *Controller) DeleteTournament(ctx context.Context, id model.TournamentID) error {
	unlock := c.locks.lock(id)
	defer unlock()

	if _, err := c.mutable(ctx, id); err != nil {
		return err
	}

	if err := c.storage.DeleteTournament(ctx, id); err != nil {
		return err
	}

	c.logger.Info("tournament deleted", slog.String("tournament_id", string(id)))
	return nil
}

// GenerateTeams discards any existing teams and deals the registered players
// into teamCount balanced teams
func (c *Controller) GenerateTeams(ctx context.Context, id model.TournamentID, teamCount int) (*model.Tournament, error) {
	if err := c.teams.CheckTeamCount(teamCount); err != nil {
		return nil, err
	}

	unlock := c.locks.lock(id)
	defer unlock()

	t, err := c.mutable(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(t.Players) == 0 {
		return nil, model.ErrNoPlayersRegistered
	}

	players, err := c.storage.GetPlayers(ctx, t.Players)
	if err != nil {
		return nil, err
	}

	start := c.clock.Now()
	generated, err := c.teams.GenerateTeams(lo.FromSlicePtr(players), teamCount)
	if err != nil {
		return nil, err
	}
	c.metrics.TeamBalanceDuration.Observe(c.clock.Since(start).Seconds())

	t.Teams = generated
	t.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveTournament(ctx, t); err != nil {
		c.logger.Error("failed to save generated teams",
			slog.String("tournament_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	c.metrics.TeamsGenerated.Inc()

	c.logger.Info("teams generated",
		slog.String("tournament_id", string(id)),
		slog.Int("team_count", teamCount),
		slog.Int("player_count", len(players)),
	)

	return t, nil
}

// ReplaceTeams sets a caller-supplied team structure without balancing
func (c *Controller) ReplaceTeams(ctx context.Context, id model.TournamentID, replacement []model.Team) (*model.Tournament, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	t, err := c.storage.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := teams.ReplaceTeams(t, replacement); err != nil {
		return nil, err
	}
	t.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveTournament(ctx, t); err != nil {
		return nil, err
	}

	c.logger.Info("teams replaced",
		slog.String("tournament_id", string(id)),
		slog.Int("team_count", len(t.Teams)),
	)

	return t, nil
}

// RecordScores applies one round of team results to the members' scores
func (c *Controller) RecordScores(ctx context.Context, id model.TournamentID, scores []model.TeamScore) (*scoring.RecordResult, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	t, err := c.storage.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.scoring.RecordTeamScores(ctx, t, scores)
}

// FinishTournament marks the tournament finished with the given winner
func (c *Controller) FinishTournament(ctx context.Context, id model.TournamentID, winningTeam int) (*model.Tournament, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	t, err := c.storage.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Finish(t, winningTeam); err != nil {
		return nil, err
	}
	t.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveTournament(ctx, t); err != nil {
		return nil, err
	}
	c.metrics.TournamentsFinished.Inc()

	c.logger.Info("tournament finished",
		slog.String("tournament_id", string(id)),
		slog.Int("winner_team", winningTeam),
	)

	return t, nil
}

// Finish marks t finished with winningTeam. t is left untouched on error.
func Finish(t *model.Tournament, winningTeam int) error {
	if t.IsFinished {
		return model.ErrTournamentFinished
	}
	if t.GetTeam(winningTeam) == nil {
		return fmt.Errorf("%w: %d", model.ErrWinningTeamNotFound, winningTeam)
	}
	t.IsFinished = true
	t.WinnerTeam = winningTeam
	return nil
}

// mutable loads a tournament that is still open for edits
func (c *Controller) mutable(ctx context.Context, id model.TournamentID) (*model.Tournament, error) {
	t, err := c.storage.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsFinished {
		return nil, model.ErrTournamentFinished
	}
	return t, nil
}

// resolvePlayers de-duplicates ids and checks that every player exists
func (c *Controller) resolvePlayers(ctx context.Context, ids []model.PlayerID) ([]model.PlayerID, error) {
	unique := lo.Uniq(ids)
	if len(unique) == 0 {
		return []model.PlayerID{}, nil
	}
	if _, err := c.storage.GetPlayers(ctx, unique); err != nil {
		return nil, err
	}
	return unique, nil
}
