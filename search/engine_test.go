package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberhq/amber/store"
)

// fakeGateway is an in-memory Gateway with optional fault injection.
type fakeGateway struct {
	contacts     []*store.Contact
	notes        []*store.Note
	interactions []*store.Interaction
	events       []*store.CalendarEvent
	tasks        []*store.Task
	embeddings   []*store.Embedding
	err          error
}

func matches(query string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), strings.ToLower(query)) {
			return true
		}
	}
	return false
}

func capped[T any](list []T, limit *int) []T {
	if limit != nil && len(list) > *limit {
		return list[:*limit]
	}
	return list
}

func (g *fakeGateway) ListContacts(_ context.Context, find *store.FindContact) ([]*store.Contact, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := []*store.Contact{}
	for _, c := range g.contacts {
		if find.Search == nil || matches(*find.Search, c.DisplayName, c.Email, c.Phone) {
			out = append(out, c)
		}
	}
	return capped(out, find.Limit), nil
}

func (g *fakeGateway) ListNotes(_ context.Context, find *store.FindNote) ([]*store.Note, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := []*store.Note{}
	for _, n := range g.notes {
		if find.Search == nil || matches(*find.Search, n.Title, n.Content) {
			out = append(out, n)
		}
	}
	return capped(out, find.Limit), nil
}

func (g *fakeGateway) ListInteractions(_ context.Context, find *store.FindInteraction) ([]*store.Interaction, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := []*store.Interaction{}
	for _, i := range g.interactions {
		if find.Search == nil || matches(*find.Search, i.Subject, i.Body) {
			out = append(out, i)
		}
	}
	return capped(out, find.Limit), nil
}

func (g *fakeGateway) ListCalendarEvents(_ context.Context, find *store.FindCalendarEvent) ([]*store.CalendarEvent, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := []*store.CalendarEvent{}
	for _, e := range g.events {
		if find.Search == nil || matches(*find.Search, e.Title, e.Description, e.Location) {
			out = append(out, e)
		}
	}
	return capped(out, find.Limit), nil
}

func (g *fakeGateway) ListTasks(_ context.Context, find *store.FindTask) ([]*store.Task, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := []*store.Task{}
	for _, task := range g.tasks {
		if find.Search == nil || matches(*find.Search, task.Name, task.Notes) {
			out = append(out, task)
		}
	}
	return capped(out, find.Limit), nil
}

func (g *fakeGateway) ListEmbeddings(_ context.Context, find *store.FindEmbedding) ([]*store.Embedding, error) {
	if g.err != nil {
		return nil, g.err
	}
	return capped(g.embeddings, find.Limit), nil
}

func (g *fakeGateway) GetContact(_ context.Context, find *store.FindContact) (*store.Contact, error) {
	for _, c := range g.contacts {
		if find.ID != nil && c.ID == *find.ID {
			return c, nil
		}
	}
	return nil, nil
}

func (g *fakeGateway) GetNote(_ context.Context, find *store.FindNote) (*store.Note, error) {
	for _, n := range g.notes {
		if find.ID != nil && n.ID == *find.ID {
			return n, nil
		}
	}
	return nil, nil
}

func (g *fakeGateway) GetInteraction(_ context.Context, find *store.FindInteraction) (*store.Interaction, error) {
	for _, i := range g.interactions {
		if find.ID != nil && i.ID == *find.ID {
			return i, nil
		}
	}
	return nil, nil
}

func (g *fakeGateway) GetTask(_ context.Context, find *store.FindTask) (*store.Task, error) {
	for _, task := range g.tasks {
		if find.ID != nil && task.ID == *find.ID {
			return task, nil
		}
	}
	return nil, nil
}

func TestSearchTraditional_Empty(t *testing.T) {
	engine := NewEngine(&fakeGateway{})

	results, err := engine.SearchTraditional(context.Background(), 1, "nothing", 10, nil)

	require.NoError(t, err)
	assert.NotNil(t, results, "no matches must return an empty slice, not nil")
	assert.Empty(t, results)
}

func TestSearchTraditional_MergesNewestFirst(t *testing.T) {
	engine := NewEngine(&fakeGateway{
		contacts: []*store.Contact{
			{ID: 1, UID: "c1", DisplayName: "Ada Lovelace", CreatedTs: 100},
		},
		notes: []*store.Note{
			{ID: 2, UID: "n1", Title: "Lunch with Ada", CreatedTs: 300},
			{ID: 3, UID: "n2", Title: "Ada follow-up", CreatedTs: 200},
		},
	})

	results, err := engine.SearchTraditional(context.Background(), 1, "ada", 10, nil)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "n1", results[0].ID)
	assert.Equal(t, "n2", results[1].ID)
	assert.Equal(t, "c1", results[2].ID)
	for _, result := range results {
		assert.Equal(t, SourceTraditional, result.Source)
		assert.Equal(t, float64(1), result.Score)
	}
}

func TestSearchTraditional_PerTypeBudget(t *testing.T) {
	// limit 4 over 2 types gives each type a budget of 2, so the five
	// matching contacts cannot crowd out the single matching note.
	contacts := []*store.Contact{}
	for i := int32(1); i <= 5; i++ {
		contacts = append(contacts, &store.Contact{ID: i, UID: string(rune('a' + i)), DisplayName: "match", CreatedTs: int64(1000 + i)})
	}
	engine := NewEngine(&fakeGateway{
		contacts: contacts,
		notes:    []*store.Note{{ID: 10, UID: "note", Title: "match", CreatedTs: 1}},
	})

	results, err := engine.SearchTraditional(context.Background(), 1, "match", 4,
		[]store.OwnerType{store.OwnerTypeContact, store.OwnerTypeNote})

	require.NoError(t, err)
	require.Len(t, results, 3)
	var noteHits int
	for _, result := range results {
		if result.Type == store.OwnerTypeNote {
			noteHits++
		}
	}
	assert.Equal(t, 1, noteHits)
}

func TestSearchTraditional_NoTypeFilterSearchesAll(t *testing.T) {
	engine := NewEngine(&fakeGateway{
		contacts: []*store.Contact{{ID: 1, UID: "c1", DisplayName: "Ada", CreatedTs: 1}},
	})

	results, err := engine.SearchTraditional(context.Background(), 1, "ada", 10, nil)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].ID)
}

func TestSearchTraditional_UnknownTypesMatchNothing(t *testing.T) {
	// An explicit allow-list that names only unknown types narrows the
	// search to nothing instead of widening it to every type.
	engine := NewEngine(&fakeGateway{
		contacts: []*store.Contact{{ID: 1, UID: "c1", DisplayName: "Ada", CreatedTs: 1}},
	})

	results, err := engine.SearchTraditional(context.Background(), 1, "ada", 10,
		[]store.OwnerType{"bogus"})

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchSemantic_UnknownTypesMatchNothing(t *testing.T) {
	engine := NewEngine(&fakeGateway{
		contacts: []*store.Contact{{ID: 1, UID: "c1", DisplayName: "Ada"}},
		embeddings: []*store.Embedding{
			{UserID: 1, OwnerType: store.OwnerTypeContact, OwnerID: 1, Embedding: []float32{1, 0}},
		},
	})

	results, err := engine.SearchSemantic(context.Background(), 1, []float32{1, 0}, 10, 0.7,
		[]store.OwnerType{"bogus"})

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchTraditional_StorageFailureAbortsAll(t *testing.T) {
	engine := NewEngine(&fakeGateway{err: assert.AnError})

	_, err := engine.SearchTraditional(context.Background(), 1, "ada", 10, nil)

	require.Error(t, err)
}

func TestSearchSemantic(t *testing.T) {
	gateway := &fakeGateway{
		contacts: []*store.Contact{
			{ID: 1, UID: "c1", DisplayName: "Ada", CreatedTs: 1},
			{ID: 2, UID: "c2", DisplayName: "Grace", CreatedTs: 2},
		},
		embeddings: []*store.Embedding{
			{UserID: 1, OwnerType: store.OwnerTypeContact, OwnerID: 2, Embedding: []float32{0.9, 0.1}},
			{UserID: 1, OwnerType: store.OwnerTypeContact, OwnerID: 1, Embedding: []float32{1, 0}},
			{UserID: 1, OwnerType: store.OwnerTypeContact, OwnerID: 3, Embedding: nil}, // not yet backfilled
			{UserID: 1, OwnerType: store.OwnerTypeContact, OwnerID: 4, Embedding: []float32{0, 1}},
		},
	}
	engine := NewEngine(gateway)

	results, err := engine.SearchSemantic(context.Background(), 1, []float32{1, 0}, 10, 0.7, nil)

	require.NoError(t, err)
	require.Len(t, results, 2)
	// Exact match ranks above the partial one; the orthogonal vector is
	// below threshold and the nil vector is skipped outright.
	assert.Equal(t, "c1", results[0].ID)
	assert.Equal(t, "c2", results[1].ID)
	assert.InDelta(t, 1, results[0].Similarity, 1e-6)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
	for _, result := range results {
		assert.Equal(t, SourceSemantic, result.Source)
		assert.GreaterOrEqual(t, result.Similarity, 0.7)
	}
}

func TestSearchSemantic_ThresholdBoundaryIncluded(t *testing.T) {
	gateway := &fakeGateway{
		contacts: []*store.Contact{{ID: 1, UID: "c1", DisplayName: "Ada"}},
		embeddings: []*store.Embedding{
			{UserID: 1, OwnerType: store.OwnerTypeContact, OwnerID: 1, Embedding: []float32{1, 0}},
		},
	}
	engine := NewEngine(gateway)

	results, err := engine.SearchSemantic(context.Background(), 1, []float32{1, 0}, 10, 1.0, nil)

	require.NoError(t, err)
	require.Len(t, results, 1, "similarity exactly at the threshold is kept")
}

func TestSearchSemantic_MissingOwnerSkipped(t *testing.T) {
	gateway := &fakeGateway{
		embeddings: []*store.Embedding{
			// Contact 42 was deleted after its embedding was written.
			{UserID: 1, OwnerType: store.OwnerTypeContact, OwnerID: 42, Embedding: []float32{1, 0}},
		},
	}
	engine := NewEngine(gateway)

	results, err := engine.SearchSemantic(context.Background(), 1, []float32{1, 0}, 10, 0.7, nil)

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchSemantic_TypeFilter(t *testing.T) {
	gateway := &fakeGateway{
		contacts: []*store.Contact{{ID: 1, UID: "c1", DisplayName: "Ada"}},
		notes:    []*store.Note{{ID: 1, UID: "n1", Title: "note"}},
		embeddings: []*store.Embedding{
			{UserID: 1, OwnerType: store.OwnerTypeContact, OwnerID: 1, Embedding: []float32{1, 0}},
			{UserID: 1, OwnerType: store.OwnerTypeNote, OwnerID: 1, Embedding: []float32{1, 0}},
		},
	}
	engine := NewEngine(gateway)

	results, err := engine.SearchSemantic(context.Background(), 1, []float32{1, 0}, 10, 0.7,
		[]store.OwnerType{store.OwnerTypeNote})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, store.OwnerTypeNote, results[0].Type)
}

func TestSearchHybrid_DeduplicatesAcrossPaths(t *testing.T) {
	gateway := &fakeGateway{
		contacts: []*store.Contact{
			// Found by both paths: name matches and embedding is close.
			{ID: 1, UID: "c1", DisplayName: "Ada Lovelace", CreatedTs: 100},
			// Traditional only.
			{ID: 2, UID: "c2", DisplayName: "Ada Palmer", CreatedTs: 200},
		},
		embeddings: []*store.Embedding{
			{UserID: 1, OwnerType: store.OwnerTypeContact, OwnerID: 1, Embedding: []float32{1, 0}},
		},
	}
	engine := NewEngine(gateway)

	results, err := engine.SearchHybrid(context.Background(), 1, "ada", []float32{1, 0}, 10, 0.7, nil)

	require.NoError(t, err)
	require.Len(t, results, 2)
	// Semantic hits come first; the duplicate keeps its semantic ranking
	// and is relabeled.
	assert.Equal(t, "c1", results[0].ID)
	assert.Equal(t, SourceHybrid, results[0].Source)
	assert.Equal(t, "c2", results[1].ID)
	assert.Equal(t, SourceTraditional, results[1].Source)
}

func TestSearchHybrid_Empty(t *testing.T) {
	engine := NewEngine(&fakeGateway{})

	results, err := engine.SearchHybrid(context.Background(), 1, "nothing", []float32{1, 0}, 10, 0.7, nil)

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
