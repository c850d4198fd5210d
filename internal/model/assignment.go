package model

import "time"

// OccurrenceAssignment is the resolved state of one occurrence slot on a
// day: either a recorded completion replayed verbatim, or a hypothetical
// assignment of the slot to its fairest candidate.
type OccurrenceAssignment struct {
	Assigned    string     `json:"assigned"`
	Completed   bool       `json:"completed"`
	CompletedBy string     `json:"completed_by,omitempty"`
	Time        *time.Time `json:"time,omitempty"`
}

// ProjectedAssignment is a hypothetical future occurrence assignment. It is
// recomputed on demand and never persisted; its only job is to bias
// rotation-order tie-breaking toward fairness over the near future.
type ProjectedAssignment struct {
	AssignedUser     string    `json:"assigned_user"`
	Date             time.Time `json:"date"`
	GlobalOccurrence int       `json:"global_occurrence"`
}

// UserStats is derived per user by folding a task's completions over a
// scope (a day, or a rotation epoch). Never stored.
type UserStats struct {
	CompletionCount    int        `json:"completion_count"`
	LastCompletionTime *time.Time `json:"last_completion_time,omitempty"`
}
