package store

import (
	"database/sql"
	"fmt"

	"github.com/hearthshare/hearthshare/internal/model"
)

// RotationRecordStore persists the turn-transition ledger. The table keeps
// every row; the bounded 50-record view lives on the Task model and is
// hydrated by TaskStore.
type RotationRecordStore struct {
	db *sql.DB
}

func NewRotationRecordStore(db *sql.DB) *RotationRecordStore {
	return &RotationRecordStore{db: db}
}

func (s *RotationRecordStore) Append(taskID int64, rec model.RotationRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO rotation_records (task_id, date, from_user, to_user, reason, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		taskID, rec.Date, rec.FromUser, rec.ToUser, rec.Reason, rec.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert rotation record: %w", err)
	}
	return nil
}

// ListRecent returns the most recent records in append order (oldest of
// the window first).
func (s *RotationRecordStore) ListRecent(taskID int64, limit int) ([]model.RotationRecord, error) {
	rows, err := s.db.Query(
		`SELECT date, from_user, to_user, reason, recorded_at
		 FROM rotation_records WHERE task_id = ?
		 ORDER BY id DESC LIMIT ?`,
		taskID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list rotation records: %w", err)
	}
	defer rows.Close()

	recent, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

func collectRecords(rows *sql.Rows) ([]model.RotationRecord, error) {
	var records []model.RotationRecord
	for rows.Next() {
		var rec model.RotationRecord
		if err := rows.Scan(&rec.Date, &rec.FromUser, &rec.ToUser, &rec.Reason, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan rotation record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
