package store

import "context"

// Tag is a user-defined label, unique per user by name.
type Tag struct {
	ID        int32
	UserID    int32
	Name      string
	Color     string
	CreatedTs int64
}

// FindTag is the find condition for tags.
type FindTag struct {
	ID        *int32
	UserID    *int32
	Name      *string
	ContactID *int32 // tags attached to this contact
	Limit     *int
	Offset    *int
}

// DeleteTag is the delete condition for a tag. Attachments to contacts are
// removed alongside the tag.
type DeleteTag struct {
	ID     int32
	UserID int32
}

// ContactTag links a tag to a contact.
type ContactTag struct {
	ContactID int32
	TagID     int32
	UserID    int32
}

// UpsertTag inserts the tag or refreshes its color when the name exists.
func (s *Store) UpsertTag(ctx context.Context, upsert *Tag) (*Tag, error) {
	return s.driver.UpsertTag(ctx, upsert)
}

func (s *Store) ListTags(ctx context.Context, find *FindTag) ([]*Tag, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListTags(ctx, find)
}

func (s *Store) DeleteTag(ctx context.Context, delete *DeleteTag) error {
	return s.driver.DeleteTag(ctx, delete)
}

// AttachContactTag links a tag to a contact; attaching twice is a no-op.
func (s *Store) AttachContactTag(ctx context.Context, attach *ContactTag) error {
	return s.driver.AttachContactTag(ctx, attach)
}

func (s *Store) DetachContactTag(ctx context.Context, detach *ContactTag) error {
	return s.driver.DetachContactTag(ctx, detach)
}
