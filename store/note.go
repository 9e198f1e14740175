package store

import (
	"context"

	"github.com/google/uuid"
)

// Note represents a free-form note, optionally linked to a contact.
type Note struct {
	ID        int32
	UID       string
	UserID    int32
	ContactID *int32
	Title     string
	Content   string
	Pinned    bool
	CreatedTs int64
	UpdatedTs int64
}

// FindNote is the find condition for notes.
type FindNote struct {
	ID        *int32
	UID       *string
	UserID    *int32
	ContactID *int32
	// Search matches title and content case-insensitively.
	Search *string
	Pinned *bool
	Limit  *int
	Offset *int
}

// UpdateNote is the update patch for a note.
type UpdateNote struct {
	ID      int32
	UserID  int32
	Title   *string
	Content *string
	Pinned  *bool
}

// DeleteNote is the delete condition for a note.
type DeleteNote struct {
	ID     int32
	UserID int32
}

func (u *UpdateNote) isEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Pinned == nil
}

func (s *Store) CreateNote(ctx context.Context, create *Note) (*Note, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	return s.driver.CreateNote(ctx, create)
}

// GetNote returns the matching note, or nil when none exists.
func (s *Store) GetNote(ctx context.Context, find *FindNote) (*Note, error) {
	list, err := s.driver.ListNotes(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListNotes(ctx context.Context, find *FindNote) ([]*Note, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListNotes(ctx, find)
}

func (s *Store) UpdateNote(ctx context.Context, update *UpdateNote) (*Note, error) {
	if update.isEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateNote(ctx, update)
}

func (s *Store) DeleteNote(ctx context.Context, delete *DeleteNote) error {
	return s.driver.DeleteNote(ctx, delete)
}
