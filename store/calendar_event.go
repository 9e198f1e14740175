package store

import (
	"context"

	"github.com/google/uuid"
)

// CalendarEvent represents a scheduled event.
type CalendarEvent struct {
	ID          int32
	UID         string
	UserID      int32
	Title       string
	Description string
	Location    string
	StartTs     int64
	EndTs       int64
	CreatedTs   int64
	UpdatedTs   int64
}

// FindCalendarEvent is the find condition for calendar events.
type FindCalendarEvent struct {
	ID     *int32
	UID    *string
	UserID *int32
	// Search matches title and description case-insensitively.
	Search  *string
	StartTs *int64 // events starting at or after
	EndTs   *int64 // events starting before
	Limit   *int
	Offset  *int
}

// UpdateCalendarEvent is the update patch for a calendar event.
type UpdateCalendarEvent struct {
	ID          int32
	UserID      int32
	Title       *string
	Description *string
	Location    *string
	StartTs     *int64
	EndTs       *int64
}

// DeleteCalendarEvent is the delete condition for a calendar event.
type DeleteCalendarEvent struct {
	ID     int32
	UserID int32
}

func (u *UpdateCalendarEvent) isEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Location == nil &&
		u.StartTs == nil && u.EndTs == nil
}

func (s *Store) CreateCalendarEvent(ctx context.Context, create *CalendarEvent) (*CalendarEvent, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	return s.driver.CreateCalendarEvent(ctx, create)
}

// GetCalendarEvent returns the matching event, or nil when none exists.
func (s *Store) GetCalendarEvent(ctx context.Context, find *FindCalendarEvent) (*CalendarEvent, error) {
	list, err := s.driver.ListCalendarEvents(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListCalendarEvents(ctx context.Context, find *FindCalendarEvent) ([]*CalendarEvent, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListCalendarEvents(ctx, find)
}

func (s *Store) UpdateCalendarEvent(ctx context.Context, update *UpdateCalendarEvent) (*CalendarEvent, error) {
	if update.isEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateCalendarEvent(ctx, update)
}

func (s *Store) DeleteCalendarEvent(ctx context.Context, delete *DeleteCalendarEvent) error {
	return s.driver.DeleteCalendarEvent(ctx, delete)
}
