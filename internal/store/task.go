package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hearthshare/hearthshare/internal/model"
	"github.com/hearthshare/hearthshare/internal/rotation"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskCols = `id, title, users, initial_order, times_per_day, settings,
	rotation_type, rotation_value, rotation_unit, current_turn_index,
	date_range, recurrence_rule, created_at, updated_at`

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var users, initialOrder, settings string
	var rotType, rotUnit string
	var rotValue int

	err := scanner.Scan(
		&t.ID, &t.Title, &users, &initialOrder, &t.TimesPerDay, &settings,
		&rotType, &rotValue, &rotUnit, &t.CurrentTurnIndex,
		&t.DateRange, &t.RecurrenceRule, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(users), &t.Users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if err := json.Unmarshal([]byte(initialOrder), &t.InitialOrder); err != nil {
		return nil, fmt.Errorf("decode initial order: %w", err)
	}
	if err := json.Unmarshal([]byte(settings), &t.Settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if rotType != "" {
		t.RotationSettings = &model.RotationSettings{Type: rotType, Value: rotValue, Unit: rotUnit}
	}
	return &t, nil
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *TaskStore) Create(t *model.Task) (*model.Task, error) {
	users, err := encodeList(t.Users)
	if err != nil {
		return nil, fmt.Errorf("encode users: %w", err)
	}
	initialOrder, err := encodeList(t.InitialOrder)
	if err != nil {
		return nil, fmt.Errorf("encode initial order: %w", err)
	}
	settings, err := encodeList(t.Settings)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}

	var rotType, rotUnit string
	var rotValue int
	if t.RotationSettings != nil {
		rotType = t.RotationSettings.Type
		rotValue = t.RotationSettings.Value
		rotUnit = t.RotationSettings.Unit
	}

	timesPerDay := t.TimesPerDay
	if timesPerDay < 1 {
		timesPerDay = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO tasks (title, users, initial_order, times_per_day, settings,
			rotation_type, rotation_value, rotation_unit, current_turn_index,
			date_range, recurrence_rule)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, users, initialOrder, timesPerDay, settings,
		rotType, rotValue, rotUnit, t.CurrentTurnIndex,
		t.DateRange, t.RecurrenceRule,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if err := s.attachHistory(t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByTitle is an exact-title lookup; fuzzy recovery belongs to the
// rotation calculator, not the store.
func (s *TaskStore) GetByTitle(title string) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE title = ?`, title)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task by title: %w", err)
	}
	if err := s.attachHistory(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskStore) List() ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM tasks ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range tasks {
		if err := s.attachHistory(&tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *TaskStore) Titles() ([]string, error) {
	rows, err := s.db.Query(`SELECT title FROM tasks ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list task titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func (s *TaskStore) Update(t *model.Task) (*model.Task, error) {
	users, err := encodeList(t.Users)
	if err != nil {
		return nil, fmt.Errorf("encode users: %w", err)
	}
	initialOrder, err := encodeList(t.InitialOrder)
	if err != nil {
		return nil, fmt.Errorf("encode initial order: %w", err)
	}
	settings, err := encodeList(t.Settings)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}

	var rotType, rotUnit string
	var rotValue int
	if t.RotationSettings != nil {
		rotType = t.RotationSettings.Type
		rotValue = t.RotationSettings.Value
		rotUnit = t.RotationSettings.Unit
	}

	_, err = s.db.Exec(
		`UPDATE tasks SET users = ?, initial_order = ?, times_per_day = ?, settings = ?,
			rotation_type = ?, rotation_value = ?, rotation_unit = ?, current_turn_index = ?,
			date_range = ?, recurrence_rule = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		users, initialOrder, t.TimesPerDay, settings,
		rotType, rotValue, rotUnit, t.CurrentTurnIndex,
		t.DateRange, t.RecurrenceRule, t.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(t.ID)
}

// SetTurnIndex persists only the rotating turn pointer.
func (s *TaskStore) SetTurnIndex(id int64, index int) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET current_turn_index = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		index, id,
	)
	if err != nil {
		return fmt.Errorf("set turn index: %w", err)
	}
	return nil
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// attachHistory hydrates the task's bounded rotation history view: the
// most recent records up to the ledger limit, oldest first.
func (s *TaskStore) attachHistory(t *model.Task) error {
	rows, err := s.db.Query(
		`SELECT date, from_user, to_user, reason, recorded_at
		 FROM rotation_records WHERE task_id = ?
		 ORDER BY id DESC LIMIT ?`,
		t.ID, rotation.HistoryLimit,
	)
	if err != nil {
		return fmt.Errorf("load rotation history: %w", err)
	}
	defer rows.Close()

	var recent []model.RotationRecord
	for rows.Next() {
		var rec model.RotationRecord
		if err := rows.Scan(&rec.Date, &rec.FromUser, &rec.ToUser, &rec.Reason, &rec.RecordedAt); err != nil {
			return fmt.Errorf("scan rotation record: %w", err)
		}
		recent = append(recent, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Reverse the newest-first query result back to append order.
	t.RotationHistory = nil
	for i := len(recent) - 1; i >= 0; i-- {
		t.RotationHistory = append(t.RotationHistory, recent[i])
	}
	return nil
}
