// Package rotation implements fair turn assignment for shared recurring
// tasks: who is due next, who gets each occurrence slot today, and when a
// rotating turn should move on. All functions here are pure computation
// over caller-supplied data; persistence and serialization belong to the
// caller.
package rotation

import (
	"time"

	"github.com/hearthshare/hearthshare/internal/model"
)

// ResolveEngagementTimestamp returns the user's most recent engagement:
// the later of their last actual completion and their latest projected
// future assignment. Nil when the user has neither. The comparison is by
// pure recency — whichever instant is chronologically later wins, no
// matter which kind it is.
func ResolveEngagementTimestamp(user string, stats map[string]model.UserStats, projections []model.ProjectedAssignment) *time.Time {
	var actual *time.Time
	if s, ok := stats[user]; ok && s.LastCompletionTime != nil {
		t := *s.LastCompletionTime
		actual = &t
	}

	// Latest projection for this user; ties on the identical date keep the
	// first entry seen, so the result is stable in input order.
	var projected *time.Time
	for _, p := range projections {
		if p.AssignedUser != user {
			continue
		}
		if projected == nil || p.Date.After(*projected) {
			t := p.Date
			projected = &t
		}
	}

	switch {
	case actual == nil:
		return projected
	case projected == nil:
		return actual
	case projected.After(*actual):
		return projected
	default:
		return actual
	}
}
