package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/acs-tournaments/internal/model"
	"github.com/mcoot/acs-tournaments/internal/storage"
)

// ErrTxConflict is returned when an optimistic update keeps losing races
var ErrTxConflict = errors.New("redis transaction conflict")

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keys{prefix: cfg.KeyPrefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	key := s.keys.player(player.ID)
	return s.saveIndexed(ctx, key, s.keys.players(), player)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var player model.Player
	if err := s.get(ctx, s.keys.player(id), &player, model.ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayers(ctx context.Context, ids []model.PlayerID) ([]*model.Player, error) {
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	playerKeys := make([]string, len(ids))
	for i, id := range ids {
		playerKeys[i] = s.keys.player(id)
	}

	values, err := s.client.MGet(ctx, playerKeys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for i, val := range values {
		if val == nil {
			return nil, fmt.Errorf("%w: %s", model.ErrPlayerNotFound, ids[i])
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	return players, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	players, err := listIndexed[model.Player](ctx, s, s.keys.players())
	if err != nil {
		return nil, err
	}
	slices.SortFunc(players, func(a, b *model.Player) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return players, nil
}

// AdjustPlayerScore adds delta to the player's score inside updatePlayer
func (s *Storage) AdjustPlayerScore(ctx context.Context, id model.PlayerID, delta int) (*model.Player, error) {
	return s.updatePlayer(ctx, id, func(player *model.Player) error {
		player.Score += delta
		return nil
	})
}

// UpdatePlayerProfile applies fn inside updatePlayer, restoring the stored
// id and score afterwards
func (s *Storage) UpdatePlayerProfile(ctx context.Context, id model.PlayerID, fn func(*model.Player) error) (*model.Player, error) {
	return s.updatePlayer(ctx, id, func(player *model.Player) error {
		storedID, storedScore := player.ID, player.Score
		if err := fn(player); err != nil {
			return err
		}
		player.ID, player.Score = storedID, storedScore
		return nil
	})
}

// updatePlayer runs a WATCH/MULTI read-modify-write on the player record.
// Lost races are retried up to MaxTxRetries times, calling mutate again on
// the fresh record.
func (s *Storage) updatePlayer(ctx context.Context, id model.PlayerID, mutate func(*model.Player) error) (*model.Player, error) {
	key := s.keys.player(id)

	var updated model.Player
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}
		if err := mutate(&player); err != nil {
			return err
		}

		out, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err == nil {
			updated = player
		}
		return err
	}

	for range s.cfg.MaxTxRetries {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, fmt.Errorf("%w: player %s", ErrTxConflict, id)
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	return s.saveIndexed(ctx, s.keys.game(game.ID), s.keys.games(), game)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.get(ctx, s.keys.game(id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	games, err := listIndexed[model.Game](ctx, s, s.keys.games())
	if err != nil {
		return nil, err
	}
	slices.SortFunc(games, func(a, b *model.Game) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return games, nil
}

// Tournament operations

func (s *Storage) SaveTournament(ctx context.Context, tournament *model.Tournament) error {
	return s.saveIndexed(ctx, s.keys.tournament(tournament.ID), s.keys.tournaments(), tournament)
}

func (s *Storage) GetTournament(ctx context.Context, id model.TournamentID) (*model.Tournament, error) {
	var tournament model.Tournament
	if err := s.get(ctx, s.keys.tournament(id), &tournament, model.ErrTournamentNotFound); err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *Storage) ListTournaments(ctx context.Context) ([]*model.Tournament, error) {
	tournaments, err := listIndexed[model.Tournament](ctx, s, s.keys.tournaments())
	if err != nil {
		return nil, err
	}
	slices.SortFunc(tournaments, func(a, b *model.Tournament) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return tournaments, nil
}

func (s *Storage) DeleteTournament(ctx context.Context, id model.TournamentID) error {
	key := s.keys.tournament(id)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, s.keys.tournaments(), key)
	_, err := pipe.Exec(ctx)
	return err
}

// Helpers

// saveIndexed writes the JSON value and registers its key in the index set
func (s *Storage) saveIndexed(ctx context.Context, key, indexKey string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, indexKey, key)
	_, err = pipe.Exec(ctx)
	return err
}

// get reads a JSON value, mapping a missing key to notFound
func (s *Storage) get(ctx context.Context, key string, dest any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// listIndexed loads every value whose key is in the index set
func listIndexed[T any](ctx context.Context, s *Storage, indexKey string) ([]*T, error) {
	members, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		return []*T{}, nil
	}

	values, err := s.client.MGet(ctx, members...).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*T, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Deleted between SMEMBERS and MGET
		}
		var item T
		if err := json.Unmarshal([]byte(val.(string)), &item); err != nil {
			continue // Skip invalid data
		}
		items = append(items, &item)
	}
	return items, nil
}
