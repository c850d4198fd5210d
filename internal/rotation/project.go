package rotation

import (
	"time"

	"github.com/hearthshare/hearthshare/internal/model"
)

// DateLayout is the day key format used for completions, rotation records,
// and projection dates.
const DateLayout = "2006-01-02"

// Occurrence slots are nominally spread hourly from 09:00, so slot 1 of a
// day projects to 09:00, slot 2 to 10:00, and so on. The absolute times
// only matter relative to each other and to completion timestamps.
const firstSlotHour = 8

// ProjectAssignments simulates the assignment walk over the task's next
// days and returns the hypothetical future assignments. Day one of the
// simulation is fromDate itself: its recorded completions are honored and
// only the open slots project. Results are ephemeral — recompute rather
// than persist.
//
// The calculator's Occurs hook filters days the task is not scheduled on;
// a nil hook projects every day.
func (c *Calculator) ProjectAssignments(task *model.Task, fromDate string, days int) ([]model.ProjectedAssignment, error) {
	start, err := time.ParseInLocation(DateLayout, fromDate, c.location())
	if err != nil {
		return nil, err
	}

	completions, err := c.Completions.CompletionsForDate(task.ID, fromDate)
	if err != nil {
		return nil, err
	}

	working := make(map[string]int, len(task.Users))
	firstDone := make(map[string]time.Time)
	completedSlots := make(map[int]bool, len(completions))
	for _, u := range task.Users {
		working[u] = 0
	}
	for _, comp := range completions {
		working[comp.User]++
		completedSlots[comp.OccurrenceIndex] = true
		if t, ok := firstDone[comp.User]; !ok || comp.CompletedAt.Before(t) {
			firstDone[comp.User] = comp.CompletedAt
		}
	}

	initial := task.EffectiveInitialOrder()
	var projections []model.ProjectedAssignment
	global := 0

	for day := 0; day < days; day++ {
		dayStart := start.AddDate(0, 0, day)
		if c.Occurs != nil && !c.Occurs(task, dayStart) {
			continue
		}
		for i := 1; i <= task.TimesPerDay; i++ {
			global++
			if day == 0 && completedSlots[i] {
				continue // already a fact, not a projection
			}
			assigned := pickCandidate(task.Users, initial, working, firstDone)
			if assigned == "" {
				continue
			}
			projections = append(projections, model.ProjectedAssignment{
				AssignedUser:     assigned,
				Date:             dayStart.Add(time.Duration(firstSlotHour+i) * time.Hour),
				GlobalOccurrence: global,
			})
			working[assigned]++
		}
	}
	return projections, nil
}

func (c *Calculator) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.UTC
}
