// Package search implements hybrid retrieval over the CRM entities:
// substring matching against the live tables and cosine-similarity ranking
// over precomputed embeddings, plus a combined mode that merges both.
package search

import (
	"context"

	"github.com/amberhq/amber/store"
)

// Source labels which retrieval path produced a result.
type Source string

const (
	SourceTraditional Source = "traditional"
	SourceSemantic    Source = "semantic"
	// SourceHybrid marks results found by both paths in a hybrid search.
	SourceHybrid Source = "hybrid"
)

const (
	// DefaultSimilarityThreshold is the minimum cosine similarity a semantic
	// candidate must reach to be returned.
	DefaultSimilarityThreshold = 0.7

	// DefaultLimit applies when the caller passes a non-positive limit.
	DefaultLimit = 20
)

// Result is one search hit, normalized across entity types.
type Result struct {
	ID         string
	Type       store.OwnerType
	Title      string
	Content    string
	Metadata   map[string]any
	Similarity float64
	Score      float64
	Source     Source
	CreatedTs  int64
}

// Gateway is the slice of the store the engine reads from.
type Gateway interface {
	ListContacts(ctx context.Context, find *store.FindContact) ([]*store.Contact, error)
	ListNotes(ctx context.Context, find *store.FindNote) ([]*store.Note, error)
	ListInteractions(ctx context.Context, find *store.FindInteraction) ([]*store.Interaction, error)
	ListCalendarEvents(ctx context.Context, find *store.FindCalendarEvent) ([]*store.CalendarEvent, error)
	ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error)
	ListEmbeddings(ctx context.Context, find *store.FindEmbedding) ([]*store.Embedding, error)
	GetContact(ctx context.Context, find *store.FindContact) (*store.Contact, error)
	GetNote(ctx context.Context, find *store.FindNote) (*store.Note, error)
	GetInteraction(ctx context.Context, find *store.FindInteraction) (*store.Interaction, error)
	GetTask(ctx context.Context, find *store.FindTask) (*store.Task, error)
}

// Engine is the hybrid search engine. It is stateless and safe for
// concurrent use.
type Engine struct {
	gateway Gateway
}

// NewEngine creates a search engine backed by the given gateway.
// *store.Store satisfies Gateway.
func NewEngine(gateway Gateway) *Engine {
	return &Engine{gateway: gateway}
}

// normalizeTypes filters the requested types down to the known searchable
// ones. No filter at all means every type; an explicit filter that names
// only unknown types stays empty, so the search matches nothing rather
// than silently widening to all types.
func normalizeTypes(types []store.OwnerType) []store.OwnerType {
	if len(types) == 0 {
		return store.AllOwnerTypes
	}
	valid := []store.OwnerType{}
	for _, t := range types {
		if store.IsValidOwnerType(t) {
			valid = append(valid, t)
		}
	}
	return valid
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
