package model

import "time"

const (
	CompletionStatusDone    = "done"
	CompletionStatusSkipped = "skipped"
)

// Completion is a recorded historical fact: user X finished occurrence N of
// a task on a date. Recalculation reads completions, never rewrites them.
type Completion struct {
	ID              int64     `json:"id"`
	TaskID          int64     `json:"task_id"`
	User            string    `json:"user"`
	Date            string    `json:"date"` // YYYY-MM-DD
	OccurrenceIndex int       `json:"occurrence_index"`
	CompletedAt     time.Time `json:"completed_at"`
	Status          string    `json:"status"`
}
