package store

import (
	"context"

	"github.com/pkg/errors"
)

// OwnerType identifies the entity table an embedding belongs to. The values
// double as the searchable entity types of the search engine.
type OwnerType string

const (
	OwnerTypeContact       OwnerType = "contact"
	OwnerTypeNote          OwnerType = "note"
	OwnerTypeInteraction   OwnerType = "interaction"
	OwnerTypeCalendarEvent OwnerType = "calendar_event"
	OwnerTypeTask          OwnerType = "task"
)

// AllOwnerTypes is the full allow-list used when a caller passes no type filter.
var AllOwnerTypes = []OwnerType{
	OwnerTypeContact,
	OwnerTypeNote,
	OwnerTypeInteraction,
	OwnerTypeCalendarEvent,
	OwnerTypeTask,
}

// IsValidOwnerType reports whether t names a searchable entity type.
func IsValidOwnerType(t OwnerType) bool {
	switch t {
	case OwnerTypeContact, OwnerTypeNote, OwnerTypeInteraction, OwnerTypeCalendarEvent, OwnerTypeTask:
		return true
	}
	return false
}

// Embedding is the owner-scoped vector record for one entity. A row may
// exist before its vector is computed; Embedding stays nil until backfilled.
type Embedding struct {
	ID          int32
	UserID      int32
	OwnerType   OwnerType
	OwnerID     int32
	Model       string
	ContentHash *string // dedup key to avoid re-embedding unchanged content
	Embedding   []float32
	CreatedTs   int64
	UpdatedTs   int64
}

// FindEmbedding is the find condition for embeddings.
type FindEmbedding struct {
	UserID    *int32
	OwnerType *OwnerType
	OwnerID   *int32
	Model     *string
	Limit     *int
	Offset    *int
}

// DeleteEmbedding is the delete condition for embeddings. Deletion cascading
// from owner deletion is the caller's responsibility.
type DeleteEmbedding struct {
	UserID    int32
	OwnerType OwnerType
	OwnerID   int32
}

// UpsertEmbedding inserts or updates the embedding row for one owner.
// The vector may be nil to register content before it is embedded.
func (s *Store) UpsertEmbedding(ctx context.Context, upsert *Embedding) (*Embedding, error) {
	if !IsValidOwnerType(upsert.OwnerType) {
		return nil, errors.Errorf("invalid owner type %q", upsert.OwnerType)
	}
	return s.driver.UpsertEmbedding(ctx, upsert)
}

// GetEmbedding returns the embedding row for one owner, or nil when none exists.
func (s *Store) GetEmbedding(ctx context.Context, find *FindEmbedding) (*Embedding, error) {
	list, err := s.driver.ListEmbeddings(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListEmbeddings lists embedding rows, newest first. Unlike entity list
// operations this honors limits above the page-size cap: the semantic search
// over-fetch is a bounded scan, not a paginated listing.
func (s *Store) ListEmbeddings(ctx context.Context, find *FindEmbedding) ([]*Embedding, error) {
	return s.driver.ListEmbeddings(ctx, find)
}

func (s *Store) DeleteEmbedding(ctx context.Context, delete *DeleteEmbedding) error {
	return s.driver.DeleteEmbedding(ctx, delete)
}
