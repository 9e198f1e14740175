package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Consent records that a contact granted a data-processing scope.
type Consent struct {
	ID        int32
	UserID    int32
	ContactID int32
	Scope     string
	Source    string
	GrantedTs int64
	CreatedTs int64
}

// FindConsent is the find condition for consents.
type FindConsent struct {
	ID        *int32
	UserID    *int32
	ContactID *int32
	Scope     *string
	Limit     *int
	Offset    *int
}

// DeleteConsent is the delete condition for a consent.
type DeleteConsent struct {
	ID     int32
	UserID int32
}

// Attachment is file metadata (and optionally the blob) linked to a contact.
type Attachment struct {
	ID        int32
	UID       string
	UserID    int32
	ContactID *int32
	Filename  string
	Type      string
	Size      int64
	Blob      []byte
	CreatedTs int64
}

// FindAttachment is the find condition for attachments.
type FindAttachment struct {
	ID        *int32
	UID       *string
	UserID    *int32
	ContactID *int32
	GetBlob   bool
	Limit     *int
	Offset    *int
}

// DeleteAttachment is the delete condition for an attachment.
type DeleteAttachment struct {
	ID     int32
	UserID int32
}

// CreateContactWithConsent is the composite onboarding write: contact,
// optional attachment, consent record and onboarding-token use increment
// execute in one transaction. Any step failing rolls back all of them.
type CreateContactWithConsent struct {
	Contact    *Contact
	Attachment *Attachment // optional
	Consent    *Consent    // ContactID is filled from the created contact
	TokenCode  string
}

func (s *Store) CreateConsent(ctx context.Context, create *Consent) (*Consent, error) {
	return s.driver.CreateConsent(ctx, create)
}

func (s *Store) ListConsents(ctx context.Context, find *FindConsent) ([]*Consent, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListConsents(ctx, find)
}

func (s *Store) DeleteConsent(ctx context.Context, delete *DeleteConsent) error {
	return s.driver.DeleteConsent(ctx, delete)
}

func (s *Store) CreateAttachment(ctx context.Context, create *Attachment) (*Attachment, error) {
	if create.UID == "" {
		create.UID = uuid.NewString()
	}
	return s.driver.CreateAttachment(ctx, create)
}

// GetAttachment returns the matching attachment, or nil when none exists.
func (s *Store) GetAttachment(ctx context.Context, find *FindAttachment) (*Attachment, error) {
	list, err := s.driver.ListAttachments(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListAttachments(ctx context.Context, find *FindAttachment) ([]*Attachment, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListAttachments(ctx, find)
}

func (s *Store) DeleteAttachment(ctx context.Context, delete *DeleteAttachment) error {
	return s.driver.DeleteAttachment(ctx, delete)
}

// CreateContactWithConsent runs the composite onboarding write atomically.
func (s *Store) CreateContactWithConsent(ctx context.Context, create *CreateContactWithConsent) (*Contact, error) {
	if create.Contact == nil || create.Consent == nil {
		return nil, errors.New("contact and consent are required")
	}
	if create.TokenCode == "" {
		return nil, errors.New("onboarding token code is required")
	}
	if create.Contact.UID == "" {
		create.Contact.UID = uuid.NewString()
	}
	if create.Attachment != nil && create.Attachment.UID == "" {
		create.Attachment.UID = uuid.NewString()
	}
	return s.driver.CreateContactWithConsent(ctx, create)
}
