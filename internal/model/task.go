package model

import "time"

// Rotation policy types. An empty type on a rotation-enabled task means
// the legacy behavior: advance on every completion.
const (
	RotationTypeCompletion  = "completion"
	RotationTypeOccurrences = "occurrences"
	RotationTypeTime        = "time"
)

// SettingRotation marks a task whose single "turn" rotates through its users.
const SettingRotation = "Rotation"

// RotationSettings configures when a task's turn moves to the next user.
type RotationSettings struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
	Unit  string `json:"unit,omitempty"` // "days" or "weeks", time policy only
}

// RotationRecord is one turn transition. Records are immutable once appended.
type RotationRecord struct {
	Date       string    `json:"date"` // YYYY-MM-DD
	FromUser   string    `json:"from_user"`
	ToUser     string    `json:"to_user"`
	Reason     string    `json:"reason"`
	RecordedAt time.Time `json:"recorded_at"`
}

type Task struct {
	ID               int64             `json:"id"`
	Title            string            `json:"title"`
	Users            []string          `json:"users"`
	InitialOrder     []string          `json:"initial_order,omitempty"`
	TimesPerDay      int               `json:"times_per_day"`
	Settings         []string          `json:"settings,omitempty"`
	RotationSettings *RotationSettings `json:"rotation_settings,omitempty"`
	CurrentTurnIndex int               `json:"current_turn_index"`
	RotationHistory  []RotationRecord  `json:"rotation_history,omitempty"`
	DateRange        string            `json:"date_range,omitempty"` // "YYYY-MM-DD to YYYY-MM-DD"
	RecurrenceRule   string            `json:"recurrence_rule,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// HasSetting reports whether the task carries the named settings flag.
func (t *Task) HasSetting(name string) bool {
	for _, s := range t.Settings {
		if s == name {
			return true
		}
	}
	return false
}

// EffectiveInitialOrder is the deterministic tie-break sequence: the
// explicit initial order when set, otherwise the user pool itself.
func (t *Task) EffectiveInitialOrder() []string {
	if len(t.InitialOrder) > 0 {
		return t.InitialOrder
	}
	return t.Users
}
