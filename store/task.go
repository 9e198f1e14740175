package store

import (
	"context"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusInFlight  TaskStatus = "in_flight"
	TaskStatusDone      TaskStatus = "done"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Task represents a task, optionally nested under a parent task and
// attached to a project. Hierarchy is stored as a plain parent reference;
// see BuildTaskForest for the resolved tree view.
type Task struct {
	ID        int32
	UID       string
	UserID    int32
	Name      string
	Notes     string
	Status    TaskStatus
	DueTs     *int64
	ParentID  *int32
	ProjectID *int32
	CreatedTs int64
	UpdatedTs int64
}

// FindTask is the find condition for tasks.
type FindTask struct {
	ID        *int32
	UID       *string
	UserID    *int32
	ProjectID *int32
	ParentID  *int32
	Status    *TaskStatus
	// Search matches name and notes case-insensitively.
	Search *string
	Limit  *int
	Offset *int
}

// UpdateTask is the update patch for a task.
type UpdateTask struct {
	ID        int32
	UserID    int32
	Name      *string
	Notes     *string
	Status    *TaskStatus
	DueTs     *int64
	ParentID  *int32
	ProjectID *int32
}

// DeleteTask is the delete condition for a task.
type DeleteTask struct {
	ID     int32
	UserID int32
}

func (u *UpdateTask) isEmpty() bool {
	return u.Name == nil && u.Notes == nil && u.Status == nil &&
		u.DueTs == nil && u.ParentID == nil && u.ProjectID == nil
}

// TaskNode is a task with its resolved children. Nodes reference each other
// through the forest index only; there are no parent back-pointers, so the
// structure cannot form cycles of live objects.
type TaskNode struct {
	Task     *Task
	Children []*TaskNode
}

// BuildTaskForest resolves parent references into a forest of task nodes.
// Tasks whose parent is missing from the input (or filtered out) are
// promoted to roots rather than dropped. Input order is preserved within
// each sibling list.
func BuildTaskForest(tasks []*Task) []*TaskNode {
	index := make(map[int32]*TaskNode, len(tasks))
	for _, task := range tasks {
		index[task.ID] = &TaskNode{Task: task}
	}

	roots := []*TaskNode{}
	for _, task := range tasks {
		node := index[task.ID]
		if task.ParentID != nil {
			if parent, ok := index[*task.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

func (s *Store) CreateTask(ctx context.Context, create *Task) (*Task, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	if create.Status == "" {
		create.Status = TaskStatusOpen
	}
	return s.driver.CreateTask(ctx, create)
}

// GetTask returns the matching task, or nil when none exists.
func (s *Store) GetTask(ctx context.Context, find *FindTask) (*Task, error) {
	list, err := s.driver.ListTasks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListTasks(ctx context.Context, find *FindTask) ([]*Task, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListTasks(ctx, find)
}

// ListTaskForest lists matching tasks and resolves their hierarchy.
func (s *Store) ListTaskForest(ctx context.Context, find *FindTask) ([]*TaskNode, error) {
	list, err := s.ListTasks(ctx, find)
	if err != nil {
		return nil, err
	}
	return BuildTaskForest(list), nil
}

func (s *Store) UpdateTask(ctx context.Context, update *UpdateTask) (*Task, error) {
	if update.isEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateTask(ctx, update)
}

func (s *Store) DeleteTask(ctx context.Context, delete *DeleteTask) error {
	return s.driver.DeleteTask(ctx, delete)
}
