package store

import (
	"testing"
	"time"

	"github.com/hearthshare/hearthshare/internal/model"
)

func TestCompletionCreateAndList(t *testing.T) {
	ts, cs, _ := setupTestDB(t)

	task, err := ts.Create(&model.Task{Title: "Dishes", Users: []string{"Anna", "Ben"}, TimesPerDay: 2})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	done := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	comp, err := cs.Create(task.ID, "Anna", "2026-03-10", 1, done, "")
	if err != nil {
		t.Fatalf("create completion: %v", err)
	}
	if comp.Status != model.CompletionStatusDone {
		t.Errorf("status = %q, want default done", comp.Status)
	}

	list, err := cs.ListForDate(task.ID, "2026-03-10")
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(list) != 1 || list[0].User != "Anna" || list[0].OccurrenceIndex != 1 {
		t.Errorf("list = %+v", list)
	}
	if !list[0].CompletedAt.Equal(done) {
		t.Errorf("completed at = %v, want %v", list[0].CompletedAt, done)
	}

	other, err := cs.ListForDate(task.ID, "2026-03-11")
	if err != nil {
		t.Fatalf("list other date: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other date list = %+v, want empty", other)
	}
}

func TestCompletionUniquePerSlot(t *testing.T) {
	ts, cs, _ := setupTestDB(t)

	task, err := ts.Create(&model.Task{Title: "Dishes", Users: []string{"Anna", "Ben"}, TimesPerDay: 2})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	now := time.Now()
	if _, err := cs.Create(task.ID, "Anna", "2026-03-10", 1, now, ""); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if _, err := cs.Create(task.ID, "Ben", "2026-03-10", 1, now, ""); err == nil {
		t.Fatal("second completion for the same slot should violate uniqueness")
	}
	// Same slot index on another date is fine.
	if _, err := cs.Create(task.ID, "Ben", "2026-03-11", 1, now, ""); err != nil {
		t.Fatalf("same slot next day: %v", err)
	}
}

func TestCompletionListRange(t *testing.T) {
	ts, cs, _ := setupTestDB(t)

	task, err := ts.Create(&model.Task{Title: "Dishes", Users: []string{"Anna"}, TimesPerDay: 1})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	now := time.Now()
	for _, date := range []string{"2026-03-08", "2026-03-10", "2026-03-12"} {
		if _, err := cs.Create(task.ID, "Anna", date, 1, now, ""); err != nil {
			t.Fatalf("create completion %s: %v", date, err)
		}
	}

	list, err := cs.ListRange(task.ID, "2026-03-09", "2026-03-11")
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(list) != 1 || list[0].Date != "2026-03-10" {
		t.Errorf("range list = %+v, want only 03-10", list)
	}

	all, err := cs.ListRange(task.ID, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("list full range: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("full range = %d completions, want 3", len(all))
	}
}
