package store

import (
	"context"

	"github.com/google/uuid"
)

// Insight is an AI-generated observation about the user's data. Insights are
// written by the (external) AI pipeline and only read/dismissed here.
type Insight struct {
	ID         int32
	UID        string
	UserID     int32
	Kind       string
	Title      string
	Body       string
	Confidence float32
	Dismissed  bool
	CreatedTs  int64
}

// FindInsight is the find condition for insights.
type FindInsight struct {
	ID        *int32
	UID       *string
	UserID    *int32
	Kind      *string
	Dismissed *bool
	Limit     *int
	Offset    *int
}

// UpdateInsight is the update patch for an insight.
type UpdateInsight struct {
	ID        int32
	UserID    int32
	Dismissed *bool
}

// DeleteInsight is the delete condition for an insight.
type DeleteInsight struct {
	ID     int32
	UserID int32
}

func (s *Store) CreateInsight(ctx context.Context, create *Insight) (*Insight, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	return s.driver.CreateInsight(ctx, create)
}

func (s *Store) ListInsights(ctx context.Context, find *FindInsight) ([]*Insight, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListInsights(ctx, find)
}

func (s *Store) UpdateInsight(ctx context.Context, update *UpdateInsight) (*Insight, error) {
	if update.Dismissed == nil {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateInsight(ctx, update)
}

func (s *Store) DeleteInsight(ctx context.Context, delete *DeleteInsight) error {
	return s.driver.DeleteInsight(ctx, delete)
}
