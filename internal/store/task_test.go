package store

import (
	"testing"
	"time"

	"github.com/hearthshare/hearthshare/internal/database"
	"github.com/hearthshare/hearthshare/internal/model"
	"github.com/hearthshare/hearthshare/internal/rotation"
)

func setupTestDB(t *testing.T) (*TaskStore, *CompletionStore, *RotationRecordStore) {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTaskStore(db), NewCompletionStore(db), NewRotationRecordStore(db)
}

func TestTaskCreateAndGet(t *testing.T) {
	ts, _, _ := setupTestDB(t)

	task, err := ts.Create(&model.Task{
		Title:        "Feed the cat",
		Users:        []string{"Anna", "Ben"},
		InitialOrder: []string{"Ben", "Anna"},
		TimesPerDay:  3,
		Settings:     []string{model.SettingRotation},
		RotationSettings: &model.RotationSettings{
			Type: model.RotationTypeOccurrences, Value: 2,
		},
		RecurrenceRule: "FREQ=DAILY",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := ts.GetByTitle("Feed the cat")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got == nil {
		t.Fatal("task not found")
	}
	if got.ID != task.ID {
		t.Errorf("id = %d, want %d", got.ID, task.ID)
	}
	if len(got.Users) != 2 || got.Users[0] != "Anna" {
		t.Errorf("users = %v", got.Users)
	}
	if len(got.InitialOrder) != 2 || got.InitialOrder[0] != "Ben" {
		t.Errorf("initial order = %v", got.InitialOrder)
	}
	if !got.HasSetting(model.SettingRotation) {
		t.Error("rotation setting lost in round trip")
	}
	if got.RotationSettings == nil || got.RotationSettings.Type != model.RotationTypeOccurrences || got.RotationSettings.Value != 2 {
		t.Errorf("rotation settings = %+v", got.RotationSettings)
	}
	if got.TimesPerDay != 3 {
		t.Errorf("times per day = %d, want 3", got.TimesPerDay)
	}
}

func TestTaskWithoutRotationSettings(t *testing.T) {
	ts, _, _ := setupTestDB(t)

	_, err := ts.Create(&model.Task{Title: "Water plants", Users: []string{"Anna"}, TimesPerDay: 1})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	got, err := ts.GetByTitle("Water plants")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.RotationSettings != nil {
		t.Errorf("rotation settings = %+v, want nil", got.RotationSettings)
	}
}

func TestTaskGetMissingReturnsNil(t *testing.T) {
	ts, _, _ := setupTestDB(t)

	got, err := ts.GetByTitle("nope")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got != nil {
		t.Errorf("task = %+v, want nil", got)
	}
}

func TestTaskTitles(t *testing.T) {
	ts, _, _ := setupTestDB(t)

	for _, title := range []string{"Dishes", "Feed the cat", "Trash"} {
		if _, err := ts.Create(&model.Task{Title: title, Users: []string{"Anna"}, TimesPerDay: 1}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	titles, err := ts.Titles()
	if err != nil {
		t.Fatalf("titles: %v", err)
	}
	if len(titles) != 3 || titles[0] != "Dishes" {
		t.Errorf("titles = %v", titles)
	}
}

func TestTaskSetTurnIndex(t *testing.T) {
	ts, _, _ := setupTestDB(t)

	task, err := ts.Create(&model.Task{Title: "Dishes", Users: []string{"Anna", "Ben"}, TimesPerDay: 1})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := ts.SetTurnIndex(task.ID, 1); err != nil {
		t.Fatalf("set turn index: %v", err)
	}
	got, err := ts.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.CurrentTurnIndex != 1 {
		t.Errorf("turn index = %d, want 1", got.CurrentTurnIndex)
	}
}

func TestTaskHistoryHydrationBounded(t *testing.T) {
	ts, _, rs := setupTestDB(t)

	task, err := ts.Create(&model.Task{Title: "Dishes", Users: []string{"Anna", "Ben"}, TimesPerDay: 1})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < rotation.HistoryLimit+5; i++ {
		rec := model.RotationRecord{
			Date:       base.AddDate(0, 0, i).Format(rotation.DateLayout),
			FromUser:   "Anna",
			ToUser:     "Ben",
			Reason:     "turn",
			RecordedAt: base.AddDate(0, 0, i),
		}
		if err := rs.Append(task.ID, rec); err != nil {
			t.Fatalf("append record %d: %v", i, err)
		}
	}

	got, err := ts.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if len(got.RotationHistory) != rotation.HistoryLimit {
		t.Fatalf("history length = %d, want %d", len(got.RotationHistory), rotation.HistoryLimit)
	}
	// Oldest retained record is the 6th appended; order is append order.
	wantFirst := base.AddDate(0, 0, 5).Format(rotation.DateLayout)
	if got.RotationHistory[0].Date != wantFirst {
		t.Errorf("first retained date = %s, want %s", got.RotationHistory[0].Date, wantFirst)
	}
	last := got.RotationHistory[len(got.RotationHistory)-1]
	wantLast := base.AddDate(0, 0, rotation.HistoryLimit+4).Format(rotation.DateLayout)
	if last.Date != wantLast {
		t.Errorf("last retained date = %s, want %s", last.Date, wantLast)
	}
}
