package rotation

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/hearthshare/hearthshare/internal/model"
)

// TaskSource supplies task definitions to the calculator. The calculator
// never fetches anything itself; a store-backed implementation lives in
// the service layer.
type TaskSource interface {
	// TaskByTitle returns (nil, nil) when no task matches exactly.
	TaskByTitle(title string) (*model.Task, error)
	// Titles lists every known task title, for the fuzzy lookup fallbacks.
	Titles() ([]string, error)
}

// CompletionSource supplies recorded completions for a task on a date.
type CompletionSource interface {
	CompletionsForDate(taskID int64, date string) ([]model.Completion, error)
}

// Calculator resolves per-occurrence assignments for a task and day.
type Calculator struct {
	Tasks       TaskSource
	Completions CompletionSource
	Logger      *slog.Logger

	// Occurs reports whether the task is scheduled on a date at all.
	// Nil means every day.
	Occurs func(task *model.Task, date time.Time) bool
	// Location interprets date strings. Nil means UTC.
	Location *time.Location
}

func NewCalculator(tasks TaskSource, completions CompletionSource, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{Tasks: tasks, Completions: completions, Logger: logger}
}

// Trailing ordinal qualifier on a task name, e.g. "Feed cat - 2nd".
var ordinalSuffix = regexp.MustCompile(`\s*-\s*\d+(st|nd|rd|th)\s*$`)

// ResolveTask finds a task by name, recovering from imprecise names:
// exact match, then case-insensitive, then substring, then the same name
// with a trailing ordinal suffix stripped. First hit wins. A miss on
// every strategy returns (nil, nil) — unlocatable, not an error.
func (c *Calculator) ResolveTask(title string) (*model.Task, error) {
	task, err := c.Tasks.TaskByTitle(title)
	if err != nil {
		return nil, err
	}
	if task != nil {
		return task, nil
	}

	titles, err := c.Tasks.Titles()
	if err != nil {
		return nil, err
	}

	if match := matchTitle(titles, title); match != "" {
		return c.Tasks.TaskByTitle(match)
	}

	stripped := strings.TrimSpace(ordinalSuffix.ReplaceAllString(title, ""))
	if stripped != "" && stripped != title {
		if task, err := c.Tasks.TaskByTitle(stripped); err != nil || task != nil {
			return task, err
		}
		if match := matchTitle(titles, stripped); match != "" {
			return c.Tasks.TaskByTitle(match)
		}
	}

	c.Logger.Debug("task lookup failed on all strategies", "title", title)
	return nil, nil
}

func matchTitle(titles []string, title string) string {
	lower := strings.ToLower(title)
	for _, t := range titles {
		if strings.ToLower(t) == lower {
			return t
		}
	}
	for _, t := range titles {
		if strings.Contains(strings.ToLower(t), lower) {
			return t
		}
	}
	return ""
}

// AssignOccurrences computes, for every occurrence slot 1..TimesPerDay of
// the named task on the given date, who holds that slot. Slots with a
// recorded completion replay it verbatim; open slots go to the
// least-loaded candidate:
//
//   - a single least-loaded user takes the slot outright;
//   - among tied users with zero completions today, the first in the
//     initial order takes it;
//   - among tied users who all completed at least once today, the one
//     whose earliest completion today is soonest takes it.
//
// Each hypothetical assignment counts toward the next slot's load. An
// unlocatable task, or a day the Occurs hook excludes, yields an empty
// map: unschedulable, not an error.
func (c *Calculator) AssignOccurrences(title, date string) (map[int]model.OccurrenceAssignment, error) {
	task, err := c.ResolveTask(title)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return map[int]model.OccurrenceAssignment{}, nil
	}
	return c.assignTask(task, date)
}

func (c *Calculator) assignTask(task *model.Task, date string) (map[int]model.OccurrenceAssignment, error) {
	if c.Occurs != nil {
		day, err := time.ParseInLocation(DateLayout, date, c.location())
		if err != nil {
			return nil, err
		}
		if !c.Occurs(task, day) {
			return map[int]model.OccurrenceAssignment{}, nil
		}
	}

	completions, err := c.Completions.CompletionsForDate(task.ID, date)
	if err != nil {
		return nil, err
	}
	return walkOccurrences(task, completions), nil
}

// walkOccurrences is the assignment walk proper, shared with projection.
func walkOccurrences(task *model.Task, completions []model.Completion) map[int]model.OccurrenceAssignment {
	byIndex := make(map[int]model.Completion, len(completions))
	working := make(map[string]int, len(task.Users))
	firstDone := make(map[string]time.Time)
	for _, u := range task.Users {
		working[u] = 0
	}
	for _, comp := range completions {
		byIndex[comp.OccurrenceIndex] = comp
		working[comp.User]++
		if t, ok := firstDone[comp.User]; !ok || comp.CompletedAt.Before(t) {
			firstDone[comp.User] = comp.CompletedAt
		}
	}

	result := make(map[int]model.OccurrenceAssignment, task.TimesPerDay)
	initial := task.EffectiveInitialOrder()

	for i := 1; i <= task.TimesPerDay; i++ {
		if comp, ok := byIndex[i]; ok {
			t := comp.CompletedAt
			result[i] = model.OccurrenceAssignment{
				Assigned:    comp.User,
				Completed:   true,
				CompletedBy: comp.User,
				Time:        &t,
			}
			continue
		}

		assigned := pickCandidate(task.Users, initial, working, firstDone)
		if assigned == "" {
			continue
		}
		result[i] = model.OccurrenceAssignment{Assigned: assigned}
		working[assigned]++
	}
	return result
}

func pickCandidate(users, initial []string, working map[string]int, firstDone map[string]time.Time) string {
	if len(users) == 0 {
		return ""
	}

	min := working[users[0]]
	for _, u := range users[1:] {
		if working[u] < min {
			min = working[u]
		}
	}
	var candidates []string
	for _, u := range users {
		if working[u] == min {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	if min == 0 {
		// Nobody engaged yet today: the deterministic initial sequence
		// decides, not timestamps.
		for _, u := range initial {
			for _, cand := range candidates {
				if cand == u {
					return cand
				}
			}
		}
		return candidates[0]
	}

	// Tied with at least one completion each: whoever finished their turn
	// earliest today gets the next slot.
	best := candidates[0]
	bestTime, haveBest := firstDone[best]
	for _, cand := range candidates[1:] {
		t, ok := firstDone[cand]
		if !ok {
			continue
		}
		if !haveBest || t.Before(bestTime) {
			best, bestTime, haveBest = cand, t, true
		}
	}
	return best
}
