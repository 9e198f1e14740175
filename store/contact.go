package store

import (
	"context"

	"github.com/google/uuid"
)

// Contact represents a person in the user's network.
type Contact struct {
	ID          int32
	UID         string
	UserID      int32
	DisplayName string
	Email       string
	Phone       string
	Company     string
	Role        string
	Archived    bool
	CreatedTs   int64
	UpdatedTs   int64
}

// FindContact is the find condition for contacts.
type FindContact struct {
	ID     *int32
	UID    *string
	UserID *int32
	// Search matches display_name, email and phone case-insensitively.
	Search   *string
	Archived *bool
	Limit    *int
	Offset   *int
}

// UpdateContact is the update patch for a contact.
type UpdateContact struct {
	ID          int32
	UserID      int32
	DisplayName *string
	Email       *string
	Phone       *string
	Company     *string
	Role        *string
	Archived    *bool
}

// DeleteContact is the delete condition for a contact.
type DeleteContact struct {
	ID     int32
	UserID int32
}

func (u *UpdateContact) isEmpty() bool {
	return u.DisplayName == nil && u.Email == nil && u.Phone == nil &&
		u.Company == nil && u.Role == nil && u.Archived == nil
}

func (s *Store) CreateContact(ctx context.Context, create *Contact) (*Contact, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	return s.driver.CreateContact(ctx, create)
}

// GetContact returns the matching contact, or nil when none exists.
func (s *Store) GetContact(ctx context.Context, find *FindContact) (*Contact, error) {
	list, err := s.driver.ListContacts(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListContacts(ctx context.Context, find *FindContact) ([]*Contact, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListContacts(ctx, find)
}

func (s *Store) UpdateContact(ctx context.Context, update *UpdateContact) (*Contact, error) {
	if update.isEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateContact(ctx, update)
}

func (s *Store) DeleteContact(ctx context.Context, delete *DeleteContact) error {
	return s.driver.DeleteContact(ctx, delete)
}
