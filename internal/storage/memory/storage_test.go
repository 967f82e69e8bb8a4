package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/acs-tournaments/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", Name: "Alice", Tier: 2, GameID: "chess", CreatedAt: s.now}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player, retrieved)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestPlayerIsCopiedOnSave() {
	player := &model.Player{ID: "player-1", Name: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	player.Name = "Mallory"

	retrieved, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal("Alice", retrieved.Name)
}

func (s *StorageSuite) TestGetPlayersPreservesOrder() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "a"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "b"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "c"})

	players, err := s.storage.GetPlayers(s.ctx, []model.PlayerID{"c", "a"})
	s.Require().NoError(err)

	s.Require().Len(players, 2)
	s.Equal(model.PlayerID("c"), players[0].ID)
	s.Equal(model.PlayerID("a"), players[1].ID)
}

func (s *StorageSuite) TestGetPlayersFailsOnMissing() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "a"})

	_, err := s.storage.GetPlayers(s.ctx, []model.PlayerID{"a", "ghost"})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayersSortedByCreation() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "late", CreatedAt: s.now.Add(time.Hour)})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "early", CreatedAt: s.now})

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(players, 2)
	s.Equal(model.PlayerID("early"), players[0].ID)
	s.Equal(model.PlayerID("late"), players[1].ID)
}

func (s *StorageSuite) TestAdjustPlayerScore() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "a", Score: 3})

	updated, err := s.storage.AdjustPlayerScore(s.ctx, "a", -5)
	s.Require().NoError(err)

	s.Equal(-2, updated.Score)
	retrieved, _ := s.storage.GetPlayer(s.ctx, "a")
	s.Equal(-2, retrieved.Score)
}

func (s *StorageSuite) TestAdjustPlayerScoreNotFound() {
	_, err := s.storage.AdjustPlayerScore(s.ctx, "ghost", 1)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestAdjustPlayerScoreConcurrent() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "a"})

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.storage.AdjustPlayerScore(s.ctx, "a", 2)
		}()
	}
	wg.Wait()

	retrieved, _ := s.storage.GetPlayer(s.ctx, "a")
	s.Equal(200, retrieved.Score)
}

func (s *StorageSuite) TestUpdatePlayerProfileKeepsIDAndScore() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "a", Name: "Alice", Tier: 1, Score: 9})

	updated, err := s.storage.UpdatePlayerProfile(s.ctx, "a", func(p *model.Player) error {
		p.Name = "Alicia"
		p.Tier = 3
		p.ID = "b"
		p.Score = 0
		return nil
	})
	s.Require().NoError(err)

	s.Equal(model.PlayerID("a"), updated.ID)
	s.Equal(9, updated.Score)
	retrieved, _ := s.storage.GetPlayer(s.ctx, "a")
	s.Equal("Alicia", retrieved.Name)
	s.Equal(model.Tier(3), retrieved.Tier)
	s.Equal(9, retrieved.Score)
	_, err = s.storage.GetPlayer(s.ctx, "b")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestUpdatePlayerProfileErrorLeavesPlayer() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "a", Name: "Alice"})

	_, err := s.storage.UpdatePlayerProfile(s.ctx, "a", func(p *model.Player) error {
		p.Name = "changed"
		return model.ErrNameRequired
	})
	s.ErrorIs(err, model.ErrNameRequired)

	retrieved, _ := s.storage.GetPlayer(s.ctx, "a")
	s.Equal("Alice", retrieved.Name)

	_, err = s.storage.UpdatePlayerProfile(s.ctx, "ghost", func(*model.Player) error { return nil })
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestUpdatePlayerProfileConcurrentWithScoreAdjustments() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "a", Tier: 1})

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.storage.AdjustPlayerScore(s.ctx, "a", 1)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.storage.UpdatePlayerProfile(s.ctx, "a", func(p *model.Player) error {
				p.Tier = model.Tier(i%5 + 1)
				return nil
			})
		}()
	}
	wg.Wait()

	retrieved, _ := s.storage.GetPlayer(s.ctx, "a")
	s.Equal(100, retrieved.Score)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{ID: "chess", Name: "Chess", Description: "board", CreatedAt: s.now}

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "chess")
	s.Require().NoError(err)
	s.Equal(game, retrieved)

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 1)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Tournament tests

func (s *StorageSuite) TestSaveAndGetTournament() {
	tournament := &model.Tournament{
		ID:      "t1",
		Name:    "Cup",
		GameID:  "chess",
		Players: []model.PlayerID{"a", "b"},
		Teams:   []model.Team{{Number: 1, Players: []model.PlayerID{"a", "b"}}},
	}

	err := s.storage.SaveTournament(s.ctx, tournament)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetTournament(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal(tournament, retrieved)
}

func (s *StorageSuite) TestTournamentIsDeepCopied() {
	tournament := &model.Tournament{
		ID:    "t1",
		Teams: []model.Team{{Number: 1, Players: []model.PlayerID{"a"}}},
	}
	_ = s.storage.SaveTournament(s.ctx, tournament)

	tournament.Teams[0].Players[0] = "mutated"
	retrieved, _ := s.storage.GetTournament(s.ctx, "t1")
	s.Equal(model.PlayerID("a"), retrieved.Teams[0].Players[0])

	retrieved.Teams[0].Players[0] = "mutated"
	again, _ := s.storage.GetTournament(s.ctx, "t1")
	s.Equal(model.PlayerID("a"), again.Teams[0].Players[0])
}

func (s *StorageSuite) TestGetTournamentNotFound() {
	_, err := s.storage.GetTournament(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrTournamentNotFound)
}

func (s *StorageSuite) TestDeleteTournament() {
	_ = s.storage.SaveTournament(s.ctx, &model.Tournament{ID: "t1"})

	err := s.storage.DeleteTournament(s.ctx, "t1")
	s.Require().NoError(err)

	_, err = s.storage.GetTournament(s.ctx, "t1")
	s.ErrorIs(err, model.ErrTournamentNotFound)

	tournaments, err := s.storage.ListTournaments(s.ctx)
	s.Require().NoError(err)
	s.Empty(tournaments)
}
