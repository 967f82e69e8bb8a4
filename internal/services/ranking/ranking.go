package ranking

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/mcoot/acs-tournaments/internal/model"
)

// GroupBy selects the key player records are merged on
type GroupBy string

const (
	// GroupByName merges every profile sharing a display name. A person has
	// one profile per game, so this is what makes GamesCount meaningful.
	GroupByName GroupBy = "name"
	// GroupByID keeps every profile separate
	GroupByID GroupBy = "id"
)

// ParseGroupBy parses a grouping key, defaulting to GroupByName
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case "", GroupByName:
		return GroupByName, nil
	case GroupByID:
		return GroupByID, nil
	default:
		return "", fmt.Errorf("%w: unknown ranking group %q", model.ErrInvalidInput, s)
	}
}

// Rank builds the leaderboard over all player records: scores are summed
// per group and GamesCount is the number of distinct games in the group.
// Entries are sorted by total score descending, then by key.
func Rank(players []model.Player, groupBy GroupBy) []model.RankingEntry {
	groups := lo.GroupBy(players, func(p model.Player) string {
		if groupBy == GroupByID {
			return string(p.ID)
		}
		return p.Name
	})

	entries := make([]model.RankingEntry, 0, len(groups))
	for key, members := range groups {
		games := lo.Uniq(lo.FilterMap(members, func(p model.Player, _ int) (model.GameID, bool) {
			return p.GameID, p.GameID != ""
		}))
		entries = append(entries, model.RankingEntry{
			Key:        key,
			Name:       members[0].Name,
			TotalScore: lo.SumBy(members, func(p model.Player) int { return p.Score }),
			GamesCount: len(games),
		})
	}

	slices.SortFunc(entries, func(a, b model.RankingEntry) int {
		return cmp.Or(cmp.Compare(b.TotalScore, a.TotalScore), cmp.Compare(a.Key, b.Key))
	})

	return entries
}
