// Package service wires the persistence layer to the rotation core and
// owns the serialization the core deliberately does not: all mutations to
// a task's rotation state pass through a per-task mutex here.
package service

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/hearthshare/hearthshare/internal/model"
	"github.com/hearthshare/hearthshare/internal/rotation"
	"github.com/hearthshare/hearthshare/internal/schedule"
	"github.com/hearthshare/hearthshare/internal/store"
)

type Rotation struct {
	tasks       *store.TaskStore
	completions *store.CompletionStore
	records     *store.RotationRecordStore
	members     *store.MemberStore
	calc        *rotation.Calculator
	locks       *xsync.Map[string, *sync.Mutex]
	log         *slog.Logger

	projectionDays int
	loc            *time.Location
}

func NewRotation(db *sql.DB, logger *slog.Logger, loc *time.Location, projectionDays int) *Rotation {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	if projectionDays < 1 {
		projectionDays = 7
	}

	tasks := store.NewTaskStore(db)
	completions := store.NewCompletionStore(db)

	calc := rotation.NewCalculator(taskSource{tasks}, completionSource{completions}, logger)
	calc.Location = loc
	calc.Occurs = occursOn(logger)

	return &Rotation{
		tasks:          tasks,
		completions:    completions,
		records:        store.NewRotationRecordStore(db),
		members:        store.NewMemberStore(db),
		calc:           calc,
		locks:          xsync.NewMap[string, *sync.Mutex](),
		log:            logger,
		projectionDays: projectionDays,
		loc:            loc,
	}
}

type taskSource struct{ tasks *store.TaskStore }

func (s taskSource) TaskByTitle(title string) (*model.Task, error) { return s.tasks.GetByTitle(title) }
func (s taskSource) Titles() ([]string, error)                     { return s.tasks.Titles() }

type completionSource struct{ completions *store.CompletionStore }

func (s completionSource) CompletionsForDate(taskID int64, date string) ([]model.Completion, error) {
	return s.completions.ListForDate(taskID, date)
}

// occursOn evaluates a task's recurrence rule for a day. Tasks with no
// rule occur every day; an unparseable rule is logged and treated the
// same, so a bad rule degrades visibility, never schedulability.
func occursOn(logger *slog.Logger) func(task *model.Task, date time.Time) bool {
	return func(task *model.Task, date time.Time) bool {
		if task.RecurrenceRule == "" {
			return true
		}
		rule, err := schedule.Parse(task.RecurrenceRule)
		if err != nil {
			logger.Error("invalid recurrence rule", "task", task.Title, "rule", task.RecurrenceRule, "error", err)
			return true
		}
		return schedule.OccursOn(rule, task.CreatedAt, date)
	}
}

// Assignments answers "who holds occurrence K of this task on this date".
// An unknown task yields an empty map: nothing to show.
func (r *Rotation) Assignments(title, date string) (map[int]model.OccurrenceAssignment, error) {
	return r.calc.AssignOccurrences(title, date)
}

// Order returns the task's priority-ordered user list for a date: who is
// most due, first. Today's completions feed the counts and the hybrid
// engagement timestamps are biased by projections over the coming days.
func (r *Rotation) Order(title, date string) ([]string, error) {
	task, err := r.calc.ResolveTask(title)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	completions, err := r.completions.ListForDate(task.ID, date)
	if err != nil {
		return nil, err
	}
	projections, err := r.calc.ProjectAssignments(task, date, r.projectionDays)
	if err != nil {
		return nil, err
	}

	stats := rotation.BuildUserStats(task.Users, completions)
	return rotation.BuildRotationOrder(task.Users, stats, projections, task.EffectiveInitialOrder())
}

// CompleteResult reports what a completion event did: the recorded fact,
// the policy decision with its reason, and the turn transition if one
// happened.
type CompleteResult struct {
	Completion   *model.Completion `json:"completion"`
	Decision     rotation.Decision `json:"decision"`
	Advanced     bool              `json:"advanced"`
	PreviousUser string            `json:"previous_user,omitempty"`
	NewUser      string            `json:"new_user,omitempty"`
}

// Complete records that user finished an occurrence of the task on date,
// then runs the rotation-advancement policy and persists any turn change.
func (r *Rotation) Complete(title, date, user string, occurrenceIndex int, now time.Time) (*CompleteResult, error) {
	task, err := r.calc.ResolveTask(title)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("no task matches %q", title)
	}

	mu, _ := r.locks.LoadOrStore(task.Title, &sync.Mutex{})
	mu.Lock()
	defer mu.Unlock()

	// Re-read under the lock so policy evaluation sees the latest turn
	// index and history.
	task, err = r.tasks.GetByID(task.ID)
	if err != nil {
		return nil, err
	}

	if occurrenceIndex < 1 || occurrenceIndex > task.TimesPerDay {
		return nil, fmt.Errorf("occurrence %d out of range for %q (1..%d)", occurrenceIndex, task.Title, task.TimesPerDay)
	}

	day, err := time.ParseInLocation(rotation.DateLayout, date, r.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	if r.calc.Occurs != nil && !r.calc.Occurs(task, day) {
		return nil, fmt.Errorf("%q is not scheduled on %s", task.Title, date)
	}

	trace := uuid.NewString()
	log := r.log.With("trace", trace, "task", task.Title, "date", date, "user", user)

	comp, err := r.completions.Create(task.ID, user, date, occurrenceIndex, now, model.CompletionStatusDone)
	if err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}
	log.Info("completion recorded", "occurrence", occurrenceIndex)

	completions, err := r.policyScope(task, user, date)
	if err != nil {
		return nil, err
	}

	decision := rotation.ShouldAdvanceRotation(task, date, user, completions, nil)
	log.Info("rotation decision", "should_advance", decision.ShouldAdvance, "reason", decision.Reason, "defaulted", decision.Defaulted)

	result := &CompleteResult{Completion: comp, Decision: decision}
	if !decision.ShouldAdvance {
		return result, nil
	}

	prev, next := rotation.AdvanceRotation(task, date, decision.Reason, now)
	if next == "" {
		return result, nil
	}
	if err := r.persistAdvance(task); err != nil {
		return nil, err
	}
	log.Info("rotation advanced", "from", prev, "to", next)

	result.Advanced = true
	result.PreviousUser = prev
	result.NewUser = next
	return result, nil
}

// policyScope loads the completions the advancement policy may count:
// everything since the completing user's turn began (or the day itself
// when the user has no turn on record).
func (r *Rotation) policyScope(task *model.Task, user, date string) ([]model.Completion, error) {
	from := date
	if rec := rotation.LatestTurnStart(task.RotationHistory, user, date); rec != nil {
		from = rec.Date
	}
	return r.completions.ListRange(task.ID, from, date)
}

func (r *Rotation) persistAdvance(task *model.Task) error {
	rec := task.RotationHistory[len(task.RotationHistory)-1]
	if err := r.records.Append(task.ID, rec); err != nil {
		return err
	}
	if err := r.tasks.SetTurnIndex(task.ID, task.CurrentTurnIndex); err != nil {
		return err
	}
	return nil
}

// History returns the task's retained rotation ledger, oldest first.
func (r *Rotation) History(title string) ([]model.RotationRecord, error) {
	task, err := r.calc.ResolveTask(title)
	if err != nil || task == nil {
		return nil, err
	}
	return task.RotationHistory, nil
}

// Tasks lists every task definition.
func (r *Rotation) Tasks() ([]model.Task, error) { return r.tasks.List() }

// Members lists household members in sort order.
func (r *Rotation) Members() ([]model.Member, error) { return r.members.List() }
