package service

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/hearthshare/hearthshare/internal/database"
	"github.com/hearthshare/hearthshare/internal/model"
	"github.com/hearthshare/hearthshare/internal/rotation"
	"github.com/hearthshare/hearthshare/internal/store"
)

func setupService(t *testing.T) (*Rotation, *sql.DB) {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRotation(db, nil, time.UTC, 3), db
}

func createDishesTask(t *testing.T, db *sql.DB) *model.Task {
	t.Helper()
	task, err := store.NewTaskStore(db).Create(&model.Task{
		Title:       "Dishes",
		Users:       []string{"Anna", "Ben"},
		TimesPerDay: 2,
		Settings:    []string{model.SettingRotation},
		RotationSettings: &model.RotationSettings{
			Type:  model.RotationTypeOccurrences,
			Value: 2,
		},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestCompleteAdvancesOnSecondOccurrence(t *testing.T) {
	svc, db := setupService(t)
	createDishesTask(t, db)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	first, err := svc.Complete("Dishes", "2026-03-10", "Anna", 1, now)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if first.Advanced {
		t.Errorf("result = %+v, want no advance at 1/2", first)
	}
	if !strings.Contains(first.Decision.Reason, "1/2") {
		t.Errorf("reason = %q, want 1/2 tally", first.Decision.Reason)
	}

	second, err := svc.Complete("Dishes", "2026-03-10", "Anna", 2, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if !second.Advanced {
		t.Fatalf("result = %+v, want advance at 2/2", second)
	}
	if second.PreviousUser != "Anna" || second.NewUser != "Ben" {
		t.Errorf("turn = %s -> %s, want Anna -> Ben", second.PreviousUser, second.NewUser)
	}

	// The transition is durable: a fresh read shows the new index and the
	// ledger entry.
	task, err := store.NewTaskStore(db).GetByTitle("Dishes")
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if task.CurrentTurnIndex != 1 {
		t.Errorf("turn index = %d, want 1", task.CurrentTurnIndex)
	}
	records, err := svc.History("Dishes")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 || records[0].ToUser != "Ben" {
		t.Errorf("history = %+v", records)
	}
}

func TestAssignmentsReflectCompletions(t *testing.T) {
	svc, db := setupService(t)
	createDishesTask(t, db)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if _, err := svc.Complete("Dishes", "2026-03-10", "Ben", 1, now); err != nil {
		t.Fatalf("complete: %v", err)
	}

	assignments, err := svc.Assignments("Dishes", "2026-03-10")
	if err != nil {
		t.Fatalf("assignments: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("assignments = %+v, want 2 slots", assignments)
	}
	if !assignments[1].Completed || assignments[1].CompletedBy != "Ben" {
		t.Errorf("slot 1 = %+v, want Ben's completion", assignments[1])
	}
	if assignments[2].Completed || assignments[2].Assigned != "Anna" {
		t.Errorf("slot 2 = %+v, want open for Anna", assignments[2])
	}
}

func TestAssignmentsUnknownTaskIsEmpty(t *testing.T) {
	svc, _ := setupService(t)

	assignments, err := svc.Assignments("Mop the moon", "2026-03-10")
	if err != nil {
		t.Fatalf("assignments: %v", err)
	}
	if len(assignments) != 0 {
		t.Errorf("assignments = %+v, want empty", assignments)
	}
}

func TestCompleteUnknownTaskFails(t *testing.T) {
	svc, _ := setupService(t)

	if _, err := svc.Complete("Mop the moon", "2026-03-10", "Anna", 1, time.Now()); err == nil {
		t.Fatal("completing an unknown task should fail")
	}
}

func TestCompleteOccurrenceOutOfRange(t *testing.T) {
	svc, db := setupService(t)
	createDishesTask(t, db)

	if _, err := svc.Complete("Dishes", "2026-03-10", "Anna", 3, time.Now()); err == nil {
		t.Fatal("occurrence 3 of a 2x/day task should fail")
	}
}

func TestCompleteResolvesFuzzyTitle(t *testing.T) {
	svc, db := setupService(t)
	createDishesTask(t, db)

	result, err := svc.Complete("dishes - 2nd", "2026-03-10", "Anna", 2, time.Now())
	if err != nil {
		t.Fatalf("complete via fuzzy title: %v", err)
	}
	if result.Completion.TaskID == 0 {
		t.Errorf("completion = %+v, want recorded against the real task", result.Completion)
	}
}

func TestRecurrenceRuleGatesAssignAndComplete(t *testing.T) {
	svc, db := setupService(t)
	task := createDishesTask(t, db)
	task.RecurrenceRule = "FREQ=WEEKLY;BYDAY=SA"
	if _, err := store.NewTaskStore(db).Update(task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	// The rule anchors at the task's creation time, so test days after
	// it: the next Saturday, and the Wednesday that follows.
	now := time.Now().UTC()
	offset := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	saturday := now.AddDate(0, 0, offset)
	wednesday := saturday.AddDate(0, 0, 4).Format(rotation.DateLayout)

	assignments, err := svc.Assignments("Dishes", wednesday)
	if err != nil {
		t.Fatalf("assignments: %v", err)
	}
	if len(assignments) != 0 {
		t.Errorf("assignments = %+v, want none on an unscheduled day", assignments)
	}

	if _, err := svc.Complete("Dishes", wednesday, "Anna", 1, time.Now()); err == nil {
		t.Fatal("completing on an unscheduled day should fail")
	}

	result, err := svc.Complete("Dishes", saturday.Format(rotation.DateLayout), "Anna", 1, saturday)
	if err != nil {
		t.Fatalf("complete on scheduled day: %v", err)
	}
	if result.Completion == nil {
		t.Error("scheduled-day completion not recorded")
	}
}

func TestOrderUsesInitialOrderWhenFresh(t *testing.T) {
	svc, db := setupService(t)
	createDishesTask(t, db)

	order, err := svc.Order("Dishes", "2026-03-10")
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if len(order) != 2 || order[0] != "Anna" || order[1] != "Ben" {
		t.Errorf("order = %v, want [Anna Ben]", order)
	}
}

func TestOrderUnknownTaskIsEmpty(t *testing.T) {
	svc, _ := setupService(t)

	order, err := svc.Order("Mop the moon", "2026-03-10")
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("order = %v, want empty", order)
	}
}
