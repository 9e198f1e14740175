package store

import (
	"context"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a background job record.
type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusFailed  JobStatus = "failed"
)

// Job is background-job metadata only. Scheduling and execution live outside
// this layer; this store tracks what was queued and how it ended.
type Job struct {
	ID        int32
	UID       string
	UserID    int32
	Kind      string
	Payload   string // JSON, opaque to this layer
	Status    JobStatus
	Attempts  int32
	RunAtTs   int64
	CreatedTs int64
	UpdatedTs int64
}

// FindJob is the find condition for jobs.
type FindJob struct {
	ID     *int32
	UID    *string
	UserID *int32
	Kind   *string
	Status *JobStatus
	Limit  *int
	Offset *int
}

// UpdateJob is the update patch for a job.
type UpdateJob struct {
	ID       int32
	UserID   int32
	Status   *JobStatus
	Attempts *int32
	Payload  *string
	RunAtTs  *int64
}

// DeleteJob is the delete condition for a job.
type DeleteJob struct {
	ID     int32
	UserID int32
}

func (u *UpdateJob) isEmpty() bool {
	return u.Status == nil && u.Attempts == nil && u.Payload == nil && u.RunAtTs == nil
}

func (s *Store) CreateJob(ctx context.Context, create *Job) (*Job, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	if create.Status == "" {
		create.Status = JobStatusPending
	}
	return s.driver.CreateJob(ctx, create)
}

func (s *Store) ListJobs(ctx context.Context, find *FindJob) ([]*Job, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListJobs(ctx, find)
}

func (s *Store) UpdateJob(ctx context.Context, update *UpdateJob) (*Job, error) {
	if update.isEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateJob(ctx, update)
}

func (s *Store) DeleteJob(ctx context.Context, delete *DeleteJob) error {
	return s.driver.DeleteJob(ctx, delete)
}
