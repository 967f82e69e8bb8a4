package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/acs-tournaments/internal/metrics"
	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/storage/memory"
	logtest "github.com/mcoot/acs-tournaments/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	metrics *metrics.Metrics
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.metrics = metrics.New()
	s.service = New(s.storage, s.metrics, logtest.NopLogger())
	s.ctx = context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []model.PlayerID{"A", "B", "C", "D", "E"} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: id, Name: string(id), Tier: 1, CreatedAt: now}))
	}
}

func (s *ServiceSuite) tournament() *model.Tournament {
	return &model.Tournament{
		ID:      "t1",
		Players: []model.PlayerID{"A", "B", "C", "D"},
		Teams: []model.Team{
			{Number: 1, Players: []model.PlayerID{"A", "B"}},
			{Number: 2, Players: []model.PlayerID{"C", "D"}},
		},
	}
}

func (s *ServiceSuite) score(id model.PlayerID) int {
	p, err := s.storage.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	return p.Score
}

// Plan tests

func (s *ServiceSuite) TestPlanExpandsTeamsInOrder() {
	adjustments, result := Plan(s.tournament(), []model.TeamScore{{TeamNumber: 2, Score: 1}, {TeamNumber: 1, Score: 4}})

	s.Equal([]Adjustment{
		{PlayerID: "C", Delta: 1},
		{PlayerID: "D", Delta: 1},
		{PlayerID: "A", Delta: 4},
		{PlayerID: "B", Delta: 4},
	}, adjustments)
	s.Equal([]int{2, 1}, result.AppliedTeams)
	s.Empty(result.SkippedTeams)
}

func (s *ServiceSuite) TestPlanSkipsUnknownTeams() {
	adjustments, result := Plan(s.tournament(), []model.TeamScore{{TeamNumber: 9, Score: 1}})

	s.Empty(adjustments)
	s.Empty(result.AppliedTeams)
	s.Equal([]int{9}, result.SkippedTeams)
}

// RecordTeamScores tests

func (s *ServiceSuite) TestRecordTeamScoresAddsToEveryMember() {
	result, err := s.service.RecordTeamScores(s.ctx, s.tournament(), []model.TeamScore{
		{TeamNumber: 1, Score: 5},
		{TeamNumber: 2, Score: -3},
	})
	s.Require().NoError(err)

	s.Equal(5, s.score("A"))
	s.Equal(5, s.score("B"))
	s.Equal(-3, s.score("C"))
	s.Equal(-3, s.score("D"))
	s.Equal(0, s.score("E"))
	s.Equal(4, result.PlayersUpdated)
	s.Equal([]int{1, 2}, result.AppliedTeams)
}

func (s *ServiceSuite) TestRecordTeamScoresIsAdditive() {
	scores := []model.TeamScore{{TeamNumber: 1, Score: 3}}

	_, err := s.service.RecordTeamScores(s.ctx, s.tournament(), scores)
	s.Require().NoError(err)
	_, err = s.service.RecordTeamScores(s.ctx, s.tournament(), scores)
	s.Require().NoError(err)

	s.Equal(6, s.score("A"))
	s.Equal(6, s.score("B"))
	s.Equal(0, s.score("C"))
}

func (s *ServiceSuite) TestRecordTeamScoresSkipsUnknownTeam() {
	result, err := s.service.RecordTeamScores(s.ctx, s.tournament(), []model.TeamScore{
		{TeamNumber: 7, Score: 10},
		{TeamNumber: 2, Score: 2},
	})
	s.Require().NoError(err)

	s.Equal([]int{7}, result.SkippedTeams)
	s.Equal([]int{2}, result.AppliedTeams)
	s.Equal(0, s.score("A"))
	s.Equal(2, s.score("C"))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ScoreEntries.WithLabelValues(metrics.OutcomeSkipped)))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ScoreEntries.WithLabelValues(metrics.OutcomeApplied)))
	s.Equal(float64(2), testutil.ToFloat64(s.metrics.ScoreAdjustments))
}

func (s *ServiceSuite) TestRecordTeamScoresEmptyReport() {
	result, err := s.service.RecordTeamScores(s.ctx, s.tournament(), nil)
	s.Require().NoError(err)

	s.Equal(0, result.PlayersUpdated)
}

func (s *ServiceSuite) TestRecordTeamScoresRejectsFinishedTournament() {
	t := s.tournament()
	t.IsFinished = true

	_, err := s.service.RecordTeamScores(s.ctx, t, []model.TeamScore{{TeamNumber: 1, Score: 5}})
	s.ErrorIs(err, model.ErrTournamentFinished)
	s.Equal(0, s.score("A"))
}

func (s *ServiceSuite) TestRecordTeamScoresRejectsTournamentWithoutTeams() {
	t := s.tournament()
	t.Teams = nil

	_, err := s.service.RecordTeamScores(s.ctx, t, []model.TeamScore{{TeamNumber: 1, Score: 5}})
	s.ErrorIs(err, model.ErrNoTeams)
}

func (s *ServiceSuite) TestRecordTeamScoresFailsOnMissingMember() {
	t := s.tournament()
	t.Teams[0].Players = []model.PlayerID{"A", "ghost", "B"}

	_, err := s.service.RecordTeamScores(s.ctx, t, []model.TeamScore{{TeamNumber: 1, Score: 5}})
	s.ErrorIs(err, model.ErrPlayerNotFound)

	// Writes before the failure stay applied
	s.Equal(5, s.score("A"))
	s.Equal(0, s.score("B"))
}

// AdjustPlayerScore tests

func (s *ServiceSuite) TestAdjustPlayerScore() {
	p, err := s.service.AdjustPlayerScore(s.ctx, "E", -7)
	s.Require().NoError(err)

	s.Equal(-7, p.Score)
	s.Equal(-7, s.score("E"))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ScoreAdjustments))
}

func (s *ServiceSuite) TestAdjustPlayerScoreUnknownPlayer() {
	_, err := s.service.AdjustPlayerScore(s.ctx, "ghost", 1)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}
