package rotation

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hearthshare/hearthshare/internal/model"
)

// Decision is the outcome of a rotation-advancement evaluation. Reason is
// part of the contract, not commentary: callers surface it in their
// diagnostic trail. Defaulted marks a decision that was not evaluated but
// forced open after an evaluation failure.
type Decision struct {
	ShouldAdvance bool   `json:"should_advance"`
	Reason        string `json:"reason"`
	Defaulted     bool   `json:"defaulted,omitempty"`
}

// ShouldAdvanceRotation decides whether the completing user's turn is over.
// Evaluation never fails the caller: any error or panic inside the policy
// logic is logged and defaults to advancing, because stalling a chore
// rotation indefinitely is worse than an extra advance.
func ShouldAdvanceRotation(task *model.Task, date, completingUser string, completions, pending []model.Completion) Decision {
	decision, err := evaluateAdvance(task, date, completingUser, completions, pending)
	if err != nil {
		slog.Error("rotation policy evaluation failed, defaulting to advance",
			"task", task.Title, "date", date, "user", completingUser, "error", err)
		return Decision{
			ShouldAdvance: true,
			Reason:        fmt.Sprintf("policy evaluation failed (%v), advancing", err),
			Defaulted:     true,
		}
	}
	return decision
}

func evaluateAdvance(task *model.Task, date, user string, completions, pending []model.Completion) (decision Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if !task.HasSetting(model.SettingRotation) {
		return Decision{Reason: "not a rotation task"}, nil
	}

	rs := task.RotationSettings
	if rs == nil {
		return Decision{ShouldAdvance: true, Reason: "no rotation policy configured, advancing on completion"}, nil
	}

	switch rs.Type {
	case model.RotationTypeCompletion:
		return Decision{ShouldAdvance: true, Reason: "single-completion turn finished"}, nil

	case model.RotationTypeOccurrences:
		required := rs.Value
		if required <= 0 {
			required = 1
		}
		turnStart := date
		if rec := LatestTurnStart(task.RotationHistory, user, date); rec != nil {
			turnStart = rec.Date
		}
		count := countSince(completions, user, turnStart, date) + countSince(pending, user, turnStart, date)
		if count >= required {
			return Decision{
				ShouldAdvance: true,
				Reason:        fmt.Sprintf("%d/%d occurrences since turn start %s", count, required, turnStart),
			}, nil
		}
		return Decision{
			Reason: fmt.Sprintf("%d/%d occurrences since turn start %s", count, required, turnStart),
		}, nil

	case model.RotationTypeTime:
		baseline, ok := rotationBaseline(task, date)
		if !ok {
			return Decision{ShouldAdvance: true, Reason: "no rotation baseline, advancing"}, nil
		}
		threshold := rs.Value
		if threshold <= 0 {
			threshold = 1
		}
		if rs.Unit == "weeks" {
			threshold *= 7
		}
		elapsed, err := wholeDaysBetween(baseline, date)
		if err != nil {
			return Decision{}, err
		}
		if elapsed >= threshold {
			return Decision{
				ShouldAdvance: true,
				Reason:        fmt.Sprintf("%d days elapsed since %s (threshold %d)", elapsed, baseline, threshold),
			}, nil
		}
		return Decision{
			Reason: fmt.Sprintf("%d days elapsed since %s (threshold %d)", elapsed, baseline, threshold),
		}, nil

	default:
		return Decision{
			ShouldAdvance: true,
			Reason:        fmt.Sprintf("unknown rotation policy %q, advancing", rs.Type),
		}, nil
	}
}

func countSince(completions []model.Completion, user, from, to string) int {
	n := 0
	for _, c := range completions {
		if c.User == user && c.Date >= from && c.Date <= to {
			n++
		}
	}
	return n
}

// rotationBaseline finds the date the current rotation span started:
// the latest ledger entry on or before the day, else the task's creation
// date, else the start of the task's "A to B" date range.
func rotationBaseline(task *model.Task, date string) (string, bool) {
	if rec := LatestOnOrBefore(task.RotationHistory, date); rec != nil {
		return rec.Date, true
	}
	if !task.CreatedAt.IsZero() {
		return task.CreatedAt.Format(DateLayout), true
	}
	if start, _, ok := strings.Cut(task.DateRange, " to "); ok {
		start = strings.TrimSpace(start)
		if _, err := time.Parse(DateLayout, start); err == nil {
			return start, true
		}
	}
	return "", false
}

// wholeDaysBetween counts elapsed whole days between two date strings,
// midnight to midnight; partial days never count.
func wholeDaysBetween(from, to string) (int, error) {
	a, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, fmt.Errorf("parse baseline date %q: %w", from, err)
	}
	b, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", to, err)
	}
	return int(b.Sub(a).Hours() / 24), nil
}

// AdvanceRotation hands the task's turn to the next user in the pool and
// records the transition. A task with no users is a no-op returning empty
// names. An out-of-range CurrentTurnIndex resets to 0 before advancing.
func AdvanceRotation(task *model.Task, date, reason string, now time.Time) (previousUser, newUser string) {
	if len(task.Users) == 0 {
		return "", ""
	}
	idx := task.CurrentTurnIndex
	if idx < 0 || idx >= len(task.Users) {
		idx = 0
	}
	next := (idx + 1) % len(task.Users)
	task.CurrentTurnIndex = next

	previousUser = task.Users[idx]
	newUser = task.Users[next]
	RecordTransition(task, date, previousUser, newUser, reason, now)
	return previousUser, newUser
}
