package rotation

import (
	"fmt"
	"sort"
	"time"

	"github.com/hearthshare/hearthshare/internal/model"
)

// BuildRotationOrder produces a total ordering of users, highest priority
// first ("whose turn is next"). Precedence between any two users:
//
//  1. Fewer completions goes first.
//  2. Earlier engagement timestamp goes first; a user with no resolvable
//     timestamp at all is treated as most overdue and goes before one who
//     has any. Both absent falls through to the initial order.
//  3. Position in initialOrder (defaulting to users itself).
//
// Every user must have a stats entry; a missing entry is a caller bug and
// returns an error rather than silently ranking the user at zero.
func BuildRotationOrder(users []string, stats map[string]model.UserStats, projections []model.ProjectedAssignment, initialOrder []string) ([]string, error) {
	if len(initialOrder) == 0 {
		initialOrder = users
	}

	type rank struct {
		user     string
		count    int
		engaged  *time.Time
		fallback int
	}

	ranks := make([]rank, 0, len(users))
	for _, u := range users {
		s, ok := stats[u]
		if !ok {
			return nil, fmt.Errorf("build rotation order: no completion count for user %q", u)
		}
		ranks = append(ranks, rank{
			user:     u,
			count:    s.CompletionCount,
			engaged:  ResolveEngagementTimestamp(u, stats, projections),
			fallback: indexOf(initialOrder, u),
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		a, b := ranks[i], ranks[j]
		if a.count != b.count {
			return a.count < b.count
		}
		switch {
		case a.engaged == nil && b.engaged == nil:
			return a.fallback < b.fallback
		case a.engaged == nil:
			return true
		case b.engaged == nil:
			return false
		case !a.engaged.Equal(*b.engaged):
			return a.engaged.Before(*b.engaged)
		}
		return a.fallback < b.fallback
	})

	order := make([]string, len(ranks))
	for i, r := range ranks {
		order[i] = r.user
	}
	return order, nil
}

// indexOf places users missing from the sequence after all listed ones,
// keeping the comparator total.
func indexOf(seq []string, user string) int {
	for i, u := range seq {
		if u == user {
			return i
		}
	}
	return len(seq)
}
