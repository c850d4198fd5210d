package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthshare/hearthshare/internal/model"
)

type CompletionStore struct {
	db *sql.DB
}

func NewCompletionStore(db *sql.DB) *CompletionStore {
	return &CompletionStore{db: db}
}

const completionCols = `id, task_id, user, date, occurrence_index, completed_at, status`

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.Completion, error) {
	var c model.Completion
	err := scanner.Scan(&c.ID, &c.TaskID, &c.User, &c.Date, &c.OccurrenceIndex, &c.CompletedAt, &c.Status)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create records a completion fact. The schema enforces one completion
// per occurrence slot per day; a second insert for the same slot fails.
func (s *CompletionStore) Create(taskID int64, user, date string, occurrenceIndex int, completedAt time.Time, status string) (*model.Completion, error) {
	if status == "" {
		status = model.CompletionStatusDone
	}
	result, err := s.db.Exec(
		`INSERT INTO completions (task_id, user, date, occurrence_index, completed_at, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		taskID, user, date, occurrenceIndex, completedAt.UTC(), status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+completionCols+` FROM completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

func (s *CompletionStore) ListForDate(taskID int64, date string) ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM completions WHERE task_id = ? AND date = ? ORDER BY occurrence_index ASC`,
		taskID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()
	return collectCompletions(rows)
}

// ListRange returns completions with from <= date <= to, oldest first.
func (s *CompletionStore) ListRange(taskID int64, from, to string) ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM completions
		 WHERE task_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, occurrence_index ASC`,
		taskID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions by range: %w", err)
	}
	defer rows.Close()
	return collectCompletions(rows)
}

func (s *CompletionStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM completions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

func collectCompletions(rows *sql.Rows) ([]model.Completion, error) {
	var completions []model.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}
