package scoring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/acs-tournaments/internal/metrics"
	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/storage"
)

// Adjustment is a single score delta for one player
type Adjustment struct {
	PlayerID model.PlayerID
	Delta    int
}

// RecordResult summarizes a team score report
type RecordResult struct {
	AppliedTeams   []int
	SkippedTeams   []int
	PlayersUpdated int
}

// Plan expands team scores into per-player adjustments, in report order.
// Entries whose team number is not in the tournament are skipped.
func Plan(t *model.Tournament, scores []model.TeamScore) ([]Adjustment, RecordResult) {
	var adjustments []Adjustment
	result := RecordResult{AppliedTeams: []int{}, SkippedTeams: []int{}}

	for _, entry := range scores {
		team := t.GetTeam(entry.TeamNumber)
		if team == nil {
			result.SkippedTeams = append(result.SkippedTeams, entry.TeamNumber)
			continue
		}
		result.AppliedTeams = append(result.AppliedTeams, entry.TeamNumber)
		for _, id := range team.Players {
			adjustments = append(adjustments, Adjustment{PlayerID: id, Delta: entry.Score})
		}
	}

	return adjustments, result
}

// Service records team results onto player scores
type Service struct {
	storage storage.Storage
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new scoring service
func New(storage storage.Storage, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "scoring")),
	}
}

// RecordTeamScores adds each reported team score to every member of that team.
// Applying the same report twice counts it twice. The per-player writes are
// not atomic as a group; on failure the error reports how far it got.
func (s *Service) RecordTeamScores(ctx context.Context, t *model.Tournament, scores []model.TeamScore) (*RecordResult, error) {
	if t.IsFinished {
		return nil, model.ErrTournamentFinished
	}
	if len(t.Teams) == 0 {
		return nil, model.ErrNoTeams
	}

	adjustments, result := Plan(t, scores)

	for i, adj := range adjustments {
		if _, err := s.storage.AdjustPlayerScore(ctx, adj.PlayerID, adj.Delta); err != nil {
			s.logger.Error("failed to apply team score",
				slog.String("tournament_id", string(t.ID)),
				slog.String("player_id", string(adj.PlayerID)),
				slog.Int("applied", i),
				slog.Int("pending", len(adjustments)-i),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("apply score to player %s: %w", adj.PlayerID, err)
		}
		s.metrics.ScoreAdjustments.Inc()
	}
	result.PlayersUpdated = len(adjustments)

	s.metrics.ScoreEntries.WithLabelValues(metrics.OutcomeApplied).Add(float64(len(result.AppliedTeams)))
	s.metrics.ScoreEntries.WithLabelValues(metrics.OutcomeSkipped).Add(float64(len(result.SkippedTeams)))

	if len(result.SkippedTeams) > 0 {
		s.logger.Debug("skipped score entries for unknown teams",
			slog.String("tournament_id", string(t.ID)),
			slog.Any("team_numbers", result.SkippedTeams),
		)
	}

	s.logger.Info("scores recorded",
		slog.String("tournament_id", string(t.ID)),
		slog.Int("teams", len(result.AppliedTeams)),
		slog.Int("players", result.PlayersUpdated),
	)

	return &result, nil
}

// AdjustPlayerScore adds delta to a single player's score
func (s *Service) AdjustPlayerScore(ctx context.Context, id model.PlayerID, delta int) (*model.Player, error) {
	player, err := s.storage.AdjustPlayerScore(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	s.metrics.ScoreAdjustments.Inc()

	s.logger.Info("player score adjusted",
		slog.String("player_id", string(id)),
		slog.Int("delta", delta),
		slog.Int("score", player.Score),
	)

	return player, nil
}
