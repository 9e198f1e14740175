package store

import (
	"context"

	"github.com/google/uuid"
)

// InteractionKind represents the channel of an interaction.
type InteractionKind string

const (
	InteractionKindCall    InteractionKind = "call"
	InteractionKindEmail   InteractionKind = "email"
	InteractionKindMeeting InteractionKind = "meeting"
	InteractionKindMessage InteractionKind = "message"
)

// Interaction represents a logged touchpoint with a contact.
type Interaction struct {
	ID         int32
	UID        string
	UserID     int32
	ContactID  int32
	Kind       InteractionKind
	Subject    string
	Body       string
	OccurredTs int64
	CreatedTs  int64
	UpdatedTs  int64
}

// FindInteraction is the find condition for interactions.
type FindInteraction struct {
	ID        *int32
	UID       *string
	UserID    *int32
	ContactID *int32
	Kind      *InteractionKind
	// Search matches subject and body case-insensitively.
	Search *string
	Limit  *int
	Offset *int
}

// UpdateInteraction is the update patch for an interaction.
type UpdateInteraction struct {
	ID         int32
	UserID     int32
	Kind       *InteractionKind
	Subject    *string
	Body       *string
	OccurredTs *int64
}

// DeleteInteraction is the delete condition for an interaction.
type DeleteInteraction struct {
	ID     int32
	UserID int32
}

func (u *UpdateInteraction) isEmpty() bool {
	return u.Kind == nil && u.Subject == nil && u.Body == nil && u.OccurredTs == nil
}

func (s *Store) CreateInteraction(ctx context.Context, create *Interaction) (*Interaction, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	return s.driver.CreateInteraction(ctx, create)
}

// GetInteraction returns the matching interaction, or nil when none exists.
func (s *Store) GetInteraction(ctx context.Context, find *FindInteraction) (*Interaction, error) {
	list, err := s.driver.ListInteractions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListInteractions(ctx context.Context, find *FindInteraction) ([]*Interaction, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListInteractions(ctx, find)
}

func (s *Store) UpdateInteraction(ctx context.Context, update *UpdateInteraction) (*Interaction, error) {
	if update.isEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	return s.driver.UpdateInteraction(ctx, update)
}

func (s *Store) DeleteInteraction(ctx context.Context, delete *DeleteInteraction) error {
	return s.driver.DeleteInteraction(ctx, delete)
}
