package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/amberhq/amber/internal/metrics"
	"github.com/amberhq/amber/store"
)

// SearchTraditional fans out a substring search across the requested entity
// types. The per-type budget is ceil(limit/len(types)), at least 1, so no
// single noisy type can crowd out the rest. Any storage failure aborts the
// whole call. An empty types filter searches every type; a filter naming
// only unknown types matches nothing.
func (e *Engine) SearchTraditional(ctx context.Context, userID int32, query string, limit int, types []store.OwnerType) ([]*Result, error) {
	timer := prometheus.NewTimer(metrics.SearchDuration.WithLabelValues(string(SourceTraditional)))
	defer timer.ObserveDuration()

	limit = normalizeLimit(limit)
	types = normalizeTypes(types)
	if len(types) == 0 {
		metrics.SearchResults.WithLabelValues(string(SourceTraditional)).Observe(0)
		return []*Result{}, nil
	}

	budget := (limit + len(types) - 1) / len(types)
	if budget < 1 {
		budget = 1
	}

	perType := make([][]*Result, len(types))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		g.Go(func() error {
			results, err := e.searchType(gctx, userID, t, query, budget)
			if err != nil {
				return err
			}
			perType[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.SearchErrors.WithLabelValues(string(SourceTraditional)).Inc()
		return nil, err
	}

	merged := []*Result{}
	for _, results := range perType {
		merged = append(merged, results...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedTs > merged[j].CreatedTs
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	metrics.SearchResults.WithLabelValues(string(SourceTraditional)).Observe(float64(len(merged)))
	return merged, nil
}

func (e *Engine) searchType(ctx context.Context, userID int32, t store.OwnerType, query string, budget int) ([]*Result, error) {
	results := []*Result{}
	switch t {
	case store.OwnerTypeContact:
		list, err := e.gateway.ListContacts(ctx, &store.FindContact{UserID: &userID, Search: &query, Limit: &budget})
		if err != nil {
			return nil, err
		}
		for _, contact := range list {
			results = append(results, contactResult(contact, SourceTraditional))
		}
	case store.OwnerTypeNote:
		list, err := e.gateway.ListNotes(ctx, &store.FindNote{UserID: &userID, Search: &query, Limit: &budget})
		if err != nil {
			return nil, err
		}
		for _, note := range list {
			results = append(results, noteResult(note, SourceTraditional))
		}
	case store.OwnerTypeInteraction:
		list, err := e.gateway.ListInteractions(ctx, &store.FindInteraction{UserID: &userID, Search: &query, Limit: &budget})
		if err != nil {
			return nil, err
		}
		for _, interaction := range list {
			results = append(results, interactionResult(interaction, SourceTraditional))
		}
	case store.OwnerTypeCalendarEvent:
		list, err := e.gateway.ListCalendarEvents(ctx, &store.FindCalendarEvent{UserID: &userID, Search: &query, Limit: &budget})
		if err != nil {
			return nil, err
		}
		for _, event := range list {
			results = append(results, calendarEventResult(event, SourceTraditional))
		}
	case store.OwnerTypeTask:
		list, err := e.gateway.ListTasks(ctx, &store.FindTask{UserID: &userID, Search: &query, Limit: &budget})
		if err != nil {
			return nil, err
		}
		for _, task := range list {
			results = append(results, taskResult(task, SourceTraditional))
		}
	default:
		return nil, errors.Errorf("unsupported search type %q", t)
	}
	return results, nil
}

// SearchSemantic ranks precomputed embeddings by cosine similarity against
// the query vector. Up to 2x limit candidate rows are scanned so that rows
// skipped for null vectors, below-threshold scores or missing owners still
// leave enough to fill the page. An empty types filter searches every type;
// a filter naming only unknown types matches nothing.
func (e *Engine) SearchSemantic(ctx context.Context, userID int32, queryEmbedding []float32, limit int, threshold float64, types []store.OwnerType) ([]*Result, error) {
	timer := prometheus.NewTimer(metrics.SearchDuration.WithLabelValues(string(SourceSemantic)))
	defer timer.ObserveDuration()

	limit = normalizeLimit(limit)
	types = normalizeTypes(types)
	if len(types) == 0 {
		metrics.SearchResults.WithLabelValues(string(SourceSemantic)).Observe(0)
		return []*Result{}, nil
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	allowed := map[store.OwnerType]bool{}
	for _, t := range types {
		allowed[t] = true
	}

	fetchLimit := 2 * limit
	embeddings, err := e.gateway.ListEmbeddings(ctx, &store.FindEmbedding{
		UserID: &userID,
		Limit:  &fetchLimit,
	})
	if err != nil {
		metrics.SearchErrors.WithLabelValues(string(SourceSemantic)).Inc()
		return nil, errors.Wrap(err, "failed to list embeddings")
	}

	type candidate struct {
		embedding  *store.Embedding
		similarity float64
	}
	candidates := []candidate{}
	for _, embedding := range embeddings {
		if !allowed[embedding.OwnerType] {
			continue
		}
		if embedding.Embedding == nil {
			metrics.SkippedEmbeddings.Inc()
			continue
		}
		similarity := cosineSimilarity(queryEmbedding, embedding.Embedding)
		if similarity < threshold {
			continue
		}
		candidates = append(candidates, candidate{embedding: embedding, similarity: similarity})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	results := []*Result{}
	for _, c := range candidates {
		if len(results) >= limit {
			break
		}
		result, err := e.resolveOwner(ctx, userID, c.embedding.OwnerType, c.embedding.OwnerID)
		if err != nil {
			metrics.SearchErrors.WithLabelValues(string(SourceSemantic)).Inc()
			return nil, err
		}
		if result == nil {
			// Owner row deleted after embedding, or a type the resolver
			// cannot load yet.
			continue
		}
		result.Similarity = c.similarity
		result.Score = c.similarity
		results = append(results, result)
	}

	metrics.SearchResults.WithLabelValues(string(SourceSemantic)).Observe(float64(len(results)))
	return results, nil
}

// resolveOwner loads the entity behind an embedding row. A nil result means
// the owner could not be found and the candidate should be skipped.
func (e *Engine) resolveOwner(ctx context.Context, userID int32, ownerType store.OwnerType, ownerID int32) (*Result, error) {
	switch ownerType {
	case store.OwnerTypeContact:
		contact, err := e.gateway.GetContact(ctx, &store.FindContact{ID: &ownerID, UserID: &userID})
		if err != nil || contact == nil {
			return nil, err
		}
		return contactResult(contact, SourceSemantic), nil
	case store.OwnerTypeNote:
		note, err := e.gateway.GetNote(ctx, &store.FindNote{ID: &ownerID, UserID: &userID})
		if err != nil || note == nil {
			return nil, err
		}
		return noteResult(note, SourceSemantic), nil
	case store.OwnerTypeInteraction:
		interaction, err := e.gateway.GetInteraction(ctx, &store.FindInteraction{ID: &ownerID, UserID: &userID})
		if err != nil || interaction == nil {
			return nil, err
		}
		return interactionResult(interaction, SourceSemantic), nil
	case store.OwnerTypeTask:
		task, err := e.gateway.GetTask(ctx, &store.FindTask{ID: &ownerID, UserID: &userID})
		if err != nil || task == nil {
			return nil, err
		}
		return taskResult(task, SourceSemantic), nil
	}
	// TODO: resolve calendar_event owners; their embeddings are indexed but
	// semantic hits on them are dropped here.
	return nil, nil
}

// SearchHybrid runs both retrieval paths and merges them. Results found by
// both are returned once, keeping the semantic ranking and relabeled as
// hybrid. Semantic hits order first.
func (e *Engine) SearchHybrid(ctx context.Context, userID int32, query string, queryEmbedding []float32, limit int, threshold float64, types []store.OwnerType) ([]*Result, error) {
	timer := prometheus.NewTimer(metrics.SearchDuration.WithLabelValues(string(SourceHybrid)))
	defer timer.ObserveDuration()

	limit = normalizeLimit(limit)

	semantic, err := e.SearchSemantic(ctx, userID, queryEmbedding, limit, threshold, types)
	if err != nil {
		return nil, err
	}
	traditional, err := e.SearchTraditional(ctx, userID, query, limit, types)
	if err != nil {
		return nil, err
	}

	seen := map[string]*Result{}
	merged := []*Result{}
	for _, result := range semantic {
		seen[resultKey(result)] = result
		merged = append(merged, result)
	}
	for _, result := range traditional {
		if prior, ok := seen[resultKey(result)]; ok {
			prior.Source = SourceHybrid
			continue
		}
		merged = append(merged, result)
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}

	metrics.SearchResults.WithLabelValues(string(SourceHybrid)).Observe(float64(len(merged)))
	return merged, nil
}

func resultKey(r *Result) string {
	return fmt.Sprintf("%s/%s", r.Type, r.ID)
}

func contactResult(contact *store.Contact, source Source) *Result {
	return &Result{
		ID:      contact.UID,
		Type:    store.OwnerTypeContact,
		Title:   contact.DisplayName,
		Content: contact.Email,
		Metadata: map[string]any{
			"company": contact.Company,
			"role":    contact.Role,
		},
		Score:     1,
		Source:    source,
		CreatedTs: contact.CreatedTs,
	}
}

func noteResult(note *store.Note, source Source) *Result {
	return &Result{
		ID:        note.UID,
		Type:      store.OwnerTypeNote,
		Title:     note.Title,
		Content:   note.Content,
		Metadata:  map[string]any{"pinned": note.Pinned},
		Score:     1,
		Source:    source,
		CreatedTs: note.CreatedTs,
	}
}

func interactionResult(interaction *store.Interaction, source Source) *Result {
	return &Result{
		ID:      interaction.UID,
		Type:    store.OwnerTypeInteraction,
		Title:   interaction.Subject,
		Content: interaction.Body,
		Metadata: map[string]any{
			"kind":        string(interaction.Kind),
			"contact_id":  interaction.ContactID,
			"occurred_ts": interaction.OccurredTs,
		},
		Score:     1,
		Source:    source,
		CreatedTs: interaction.CreatedTs,
	}
}

func calendarEventResult(event *store.CalendarEvent, source Source) *Result {
	return &Result{
		ID:      event.UID,
		Type:    store.OwnerTypeCalendarEvent,
		Title:   event.Title,
		Content: event.Description,
		Metadata: map[string]any{
			"location": event.Location,
			"start_ts": event.StartTs,
			"end_ts":   event.EndTs,
		},
		Score:     1,
		Source:    source,
		CreatedTs: event.CreatedTs,
	}
}

func taskResult(task *store.Task, source Source) *Result {
	return &Result{
		ID:        task.UID,
		Type:      store.OwnerTypeTask,
		Title:     task.Name,
		Content:   task.Notes,
		Metadata:  map[string]any{"status": string(task.Status)},
		Score:     1,
		Source:    source,
		CreatedTs: task.CreatedTs,
	}
}
