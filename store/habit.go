package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// HabitFrequency is the target cadence of a habit.
type HabitFrequency string

const (
	HabitFrequencyDaily   HabitFrequency = "daily"
	HabitFrequencyWeekly  HabitFrequency = "weekly"
	HabitFrequencyMonthly HabitFrequency = "monthly"
)

// DateLayout is the calendar-date format used for all habit date math.
// No timezone is modeled; callers normalize before writing.
const DateLayout = "2006-01-02"

// Habit represents a tracked habit.
type Habit struct {
	ID        int32
	UID       string
	UserID    int32
	Name      string
	Frequency HabitFrequency
	Active    bool
	CreatedTs int64
	UpdatedTs int64
}

// FindHabit is the find condition for habits.
type FindHabit struct {
	ID     *int32
	UID    *string
	UserID *int32
	Active *bool
	Limit  *int
	Offset *int
}

// UpdateHabit is the update patch for a habit.
type UpdateHabit struct {
	ID        int32
	UserID    int32
	Name      *string
	Frequency *HabitFrequency
	Active    *bool
}

// DeleteHabit is the delete condition for a habit.
type DeleteHabit struct {
	ID     int32
	UserID int32
}

// HabitCompletion is one completion record. At most one row exists per
// (user, habit, date); re-submitting the same date overwrites notes.
type HabitCompletion struct {
	ID        int32
	UserID    int32
	HabitID   int32
	Date      string // YYYY-MM-DD
	Notes     string
	CreatedTs int64
}

// FindHabitCompletion is the find condition for habit completions.
type FindHabitCompletion struct {
	UserID    *int32
	HabitID   *int32
	Date      *string
	StartDate *string // inclusive
	EndDate   *string // inclusive
	Limit     *int
	Offset    *int
}

// UpsertHabitCompletion records a completion for one calendar day.
type UpsertHabitCompletion struct {
	UserID  int32
	HabitID int32
	Date    string // YYYY-MM-DD
	Notes   string
}

// DeleteHabitCompletion is the delete condition for a habit completion.
type DeleteHabitCompletion struct {
	UserID  int32
	HabitID int32
	Date    string
}

func (s *Store) CreateHabit(ctx context.Context, create *Habit) (*Habit, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	if create.Frequency == "" {
		create.Frequency = HabitFrequencyDaily
	}
	return s.driver.CreateHabit(ctx, create)
}

// GetHabit returns the matching habit, or nil when none exists.
func (s *Store) GetHabit(ctx context.Context, find *FindHabit) (*Habit, error) {
	list, err := s.driver.ListHabits(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListHabits(ctx context.Context, find *FindHabit) ([]*Habit, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListHabits(ctx, find)
}

func (s *Store) UpdateHabit(ctx context.Context, update *UpdateHabit) (*Habit, error) {
	if update.Name == nil && update.Frequency == nil && update.Active == nil {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateHabit(ctx, update)
}

func (s *Store) DeleteHabit(ctx context.Context, delete *DeleteHabit) error {
	return s.driver.DeleteHabit(ctx, delete)
}

// UpsertHabitCompletion records a completion. Two concurrent submissions for
// the same (habit, date) are not serialized here; the storage unique
// constraint guarantees exactly one surviving row.
func (s *Store) UpsertHabitCompletion(ctx context.Context, upsert *UpsertHabitCompletion) (*HabitCompletion, error) {
	if _, err := time.Parse(DateLayout, upsert.Date); err != nil {
		return nil, errors.Wrapf(err, "invalid completion date %q", upsert.Date)
	}
	return s.driver.UpsertHabitCompletion(ctx, upsert)
}

func (s *Store) ListHabitCompletions(ctx context.Context, find *FindHabitCompletion) ([]*HabitCompletion, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListHabitCompletions(ctx, find)
}

func (s *Store) DeleteHabitCompletion(ctx context.Context, delete *DeleteHabitCompletion) error {
	return s.driver.DeleteHabitCompletion(ctx, delete)
}
