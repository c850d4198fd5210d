package rotation

import (
	"time"

	"github.com/hearthshare/hearthshare/internal/model"
)

// HistoryLimit bounds a task's in-memory rotation history. Appending past
// the limit evicts the oldest records first; eviction is silent, never an
// error.
const HistoryLimit = 50

// RecordTransition appends a turn transition to the task's rotation
// history, evicting from the front to stay within HistoryLimit.
func RecordTransition(task *model.Task, date, fromUser, toUser, reason string, now time.Time) model.RotationRecord {
	rec := model.RotationRecord{
		Date:       date,
		FromUser:   fromUser,
		ToUser:     toUser,
		Reason:     reason,
		RecordedAt: now,
	}
	task.RotationHistory = append(task.RotationHistory, rec)
	if excess := len(task.RotationHistory) - HistoryLimit; excess > 0 {
		task.RotationHistory = append(task.RotationHistory[:0:0], task.RotationHistory[excess:]...)
	}
	return rec
}

// LatestOnOrBefore returns the most recent record dated on or before the
// given day, scanning newest-first. Nil when none qualifies.
func LatestOnOrBefore(history []model.RotationRecord, date string) *model.RotationRecord {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Date <= date {
			rec := history[i]
			return &rec
		}
	}
	return nil
}

// LatestTurnStart returns the most recent record that handed the turn to
// the given user on or before the given day. Nil when the user has never
// received the turn within the retained history.
func LatestTurnStart(history []model.RotationRecord, user, date string) *model.RotationRecord {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].ToUser == user && history[i].Date <= date {
			rec := history[i]
			return &rec
		}
	}
	return nil
}
