package teams

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/mcoot/acs-tournaments/internal/dependencies/random"
	"github.com/mcoot/acs-tournaments/internal/model"
)

// DefaultTeamCount is used when the caller does not supply a usable team count
const DefaultTeamCount = 2

// DefaultMaxTeamCount bounds the number of teams a single generation may create
const DefaultMaxTeamCount = 256

// TierQueues is a player pool partitioned by tier. Each queue is owned by
// the TierQueues value and never aliases the caller's slice.
type TierQueues struct {
	Queues map[model.Tier][]model.Player
	Tiers  []model.Tier // distinct tiers, ascending (strongest first)
}

// Len returns the total number of queued players
func (q *TierQueues) Len() int {
	n := 0
	for _, queue := range q.Queues {
		n += len(queue)
	}
	return n
}

// Service partitions tiered player pools into balanced teams
type Service struct {
	random       random.Random
	maxTeamCount int
}

// New creates a new team formation service
func New(random random.Random) *Service {
	return &Service{
		random:       random,
		maxTeamCount: DefaultMaxTeamCount,
	}
}

// WithMaxTeamCount sets the largest accepted team count. Values below one
// are ignored.
func (s *Service) WithMaxTeamCount(n int) *Service {
	if n >= 1 {
		s.maxTeamCount = n
	}
	return s
}

// MaxTeamCount returns the largest accepted team count
func (s *Service) MaxTeamCount() int {
	return s.maxTeamCount
}

// CheckTeamCount rejects counts outside [1, MaxTeamCount]
func (s *Service) CheckTeamCount(teamCount int) error {
	if teamCount < 1 || teamCount > s.maxTeamCount {
		return fmt.Errorf("%w: got %d, maximum is %d", model.ErrInvalidTeamCount, teamCount, s.maxTeamCount)
	}
	return nil
}

// GroupByTier partitions players by tier and shuffles each tier's queue.
// Tiers are shuffled in ascending order so a seeded source is reproducible.
func (s *Service) GroupByTier(players []model.Player) (*TierQueues, error) {
	if len(players) == 0 {
		return nil, model.ErrNoPlayersRegistered
	}

	queues := lo.GroupBy(players, func(p model.Player) model.Tier {
		return p.Tier
	})

	tiers := lo.Keys(queues)
	slices.Sort(tiers)

	for _, tier := range tiers {
		queue := queues[tier]
		s.random.Shuffle(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}

	return &TierQueues{Queues: queues, Tiers: tiers}, nil
}

// BalanceTeams deals the queued players into teamCount teams.
//
// Each pass walks the teams in order. A team takes one player from the
// strongest non-empty tier of the high half, then one from the weakest
// non-empty tier of the low half, as long as it is under its size cap.
// Caps are ceil(total/teamCount) for the first total%teamCount teams and
// floor for the rest, so sizes never differ by more than one.
func (s *Service) BalanceTeams(q *TierQueues, teamCount, totalPlayers int) ([]model.Team, error) {
	if err := s.CheckTeamCount(teamCount); err != nil {
		return nil, err
	}
	if totalPlayers < 1 {
		return nil, model.ErrNoPlayersRegistered
	}
	if available := q.Len(); available != totalPlayers {
		return nil, fmt.Errorf("%w: %d players queued, %d expected", model.ErrInvalidInput, available, totalPlayers)
	}

	// Middle tier of an odd count belongs to the high half
	highCount := (len(q.Tiers) + 1) / 2
	high := q.Tiers[:highCount]
	low := slices.Clone(q.Tiers[highCount:])
	slices.Reverse(low)

	caps := teamCaps(totalPlayers, teamCount)
	teams := make([]model.Team, teamCount)
	for i := range teams {
		teams[i] = model.Team{Number: i + 1, Players: make([]model.PlayerID, 0, caps[i])}
	}

	cursors := make(map[model.Tier]int, len(q.Tiers))
	pull := func(team *model.Team, limit int, tiers []model.Tier) bool {
		if len(team.Players) >= limit {
			return false
		}
		for _, tier := range tiers {
			queue := q.Queues[tier]
			if cursors[tier] < len(queue) {
				team.Players = append(team.Players, queue[cursors[tier]].ID)
				cursors[tier]++
				return true
			}
		}
		return false
	}

	placed := 0
	for placed < totalPlayers {
		progressed := false
		for i := range teams {
			if placed >= totalPlayers {
				break
			}
			if pull(&teams[i], caps[i], high) {
				placed++
				progressed = true
			}
			if pull(&teams[i], caps[i], low) {
				placed++
				progressed = true
			}
		}
		if !progressed {
			return nil, fmt.Errorf("team balancing stalled with %d of %d players placed", placed, totalPlayers)
		}
	}

	return teams, nil
}

// GenerateTeams groups the players by tier and balances them into teamCount teams
func (s *Service) GenerateTeams(players []model.Player, teamCount int) ([]model.Team, error) {
	if err := s.CheckTeamCount(teamCount); err != nil {
		return nil, err
	}
	queues, err := s.GroupByTier(players)
	if err != nil {
		return nil, err
	}
	return s.BalanceTeams(queues, teamCount, len(players))
}

// teamCaps returns the maximum size of each team
func teamCaps(total, teamCount int) []int {
	caps := make([]int, teamCount)
	base, extra := total/teamCount, total%teamCount
	for i := range caps {
		caps[i] = base
		if i < extra {
			caps[i]++
		}
	}
	return caps
}
