package store

import (
	"testing"

	"github.com/hearthshare/hearthshare/internal/database"
)

func setupMemberTestDB(t *testing.T) *MemberStore {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMemberStore(db)
}

func TestMemberCreateAssignsSortOrder(t *testing.T) {
	ms := setupMemberTestDB(t)

	anna, err := ms.Create("Anna", "#E07A5F", "🦊")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if anna.SortOrder != 0 {
		t.Errorf("first sort order = %d, want 0", anna.SortOrder)
	}

	ben, err := ms.Create("Ben", "#3D405B", "🐻")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if ben.SortOrder != 1 {
		t.Errorf("second sort order = %d, want 1", ben.SortOrder)
	}
}

func TestMemberListAndReorder(t *testing.T) {
	ms := setupMemberTestDB(t)

	anna, _ := ms.Create("Anna", "", "")
	ben, _ := ms.Create("Ben", "", "")

	if err := ms.UpdateSortOrder([]int64{ben.ID, anna.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	members, err := ms.List()
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 || members[0].Name != "Ben" {
		t.Errorf("members = %+v, want Ben first after reorder", members)
	}
}

func TestMemberGetByName(t *testing.T) {
	ms := setupMemberTestDB(t)

	if _, err := ms.Create("Anna", "", ""); err != nil {
		t.Fatalf("create member: %v", err)
	}

	got, err := ms.GetByName("Anna")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if got == nil || got.Name != "Anna" {
		t.Errorf("member = %+v", got)
	}

	missing, err := ms.GetByName("Zoe")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("member = %+v, want nil", missing)
	}
}
