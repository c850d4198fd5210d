package rotation

import "github.com/hearthshare/hearthshare/internal/model"

// BuildUserStats folds completions into per-user stats for a scope.
// Every user in the pool gets an entry, which keeps the order builder's
// stats precondition satisfied for users with no completions yet.
func BuildUserStats(users []string, completions []model.Completion) map[string]model.UserStats {
	stats := make(map[string]model.UserStats, len(users))
	for _, u := range users {
		stats[u] = model.UserStats{}
	}
	for _, c := range completions {
		s, ok := stats[c.User]
		if !ok {
			continue // completion by a user no longer in the pool
		}
		s.CompletionCount++
		if s.LastCompletionTime == nil || c.CompletedAt.After(*s.LastCompletionTime) {
			t := c.CompletedAt
			s.LastCompletionTime = &t
		}
		stats[c.User] = s
	}
	return stats
}
