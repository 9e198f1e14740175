package store

import (
	"context"

	"github.com/google/uuid"
)

// Project groups tasks under a shared outcome.
type Project struct {
	ID        int32
	UID       string
	UserID    int32
	Name      string
	Status    TaskStatus
	CreatedTs int64
	UpdatedTs int64
}

// FindProject is the find condition for projects.
type FindProject struct {
	ID     *int32
	UID    *string
	UserID *int32
	Status *TaskStatus
	Limit  *int
	Offset *int
}

// UpdateProject is the update patch for a project.
type UpdateProject struct {
	ID     int32
	UserID int32
	Name   *string
	Status *TaskStatus
}

// DeleteProject is the delete condition for a project.
type DeleteProject struct {
	ID     int32
	UserID int32
}

// Goal is a longer-horizon objective, optionally tracked against a target date.
type Goal struct {
	ID         int32
	UID        string
	UserID     int32
	Name       string
	Status     TaskStatus
	TargetDate *string // ISO date, YYYY-MM-DD
	CreatedTs  int64
	UpdatedTs  int64
}

// FindGoal is the find condition for goals.
type FindGoal struct {
	ID     *int32
	UID    *string
	UserID *int32
	Status *TaskStatus
	Limit  *int
	Offset *int
}

// UpdateGoal is the update patch for a goal.
type UpdateGoal struct {
	ID         int32
	UserID     int32
	Name       *string
	Status     *TaskStatus
	TargetDate *string
}

// DeleteGoal is the delete condition for a goal.
type DeleteGoal struct {
	ID     int32
	UserID int32
}

func (s *Store) CreateProject(ctx context.Context, create *Project) (*Project, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	if create.Status == "" {
		create.Status = TaskStatusOpen
	}
	return s.driver.CreateProject(ctx, create)
}

func (s *Store) ListProjects(ctx context.Context, find *FindProject) ([]*Project, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListProjects(ctx, find)
}

func (s *Store) UpdateProject(ctx context.Context, update *UpdateProject) (*Project, error) {
	if update.Name == nil && update.Status == nil {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateProject(ctx, update)
}

func (s *Store) DeleteProject(ctx context.Context, delete *DeleteProject) error {
	return s.driver.DeleteProject(ctx, delete)
}

func (s *Store) CreateGoal(ctx context.Context, create *Goal) (*Goal, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	if create.Status == "" {
		create.Status = TaskStatusOpen
	}
	return s.driver.CreateGoal(ctx, create)
}

func (s *Store) ListGoals(ctx context.Context, find *FindGoal) ([]*Goal, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListGoals(ctx, find)
}

func (s *Store) UpdateGoal(ctx context.Context, update *UpdateGoal) (*Goal, error) {
	if update.Name == nil && update.Status == nil && update.TargetDate == nil {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateGoal(ctx, update)
}

func (s *Store) DeleteGoal(ctx context.Context, delete *DeleteGoal) error {
	return s.driver.DeleteGoal(ctx, delete)
}
