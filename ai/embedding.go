// Package ai holds the query-time embedding client. Content embeddings are
// written precomputed; this client only turns free-text search queries into
// vectors for semantic search.
package ai

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/amberhq/amber/internal/profile"
)

// EmbeddingService turns text into vectors via any OpenAI-compatible
// endpoint (openai, siliconflow, ollama, ...).
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

type embeddingService struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewEmbeddingService creates an embedding client from the profile's
// embedding configuration.
func NewEmbeddingService(profile *profile.Profile) (EmbeddingService, error) {
	if !profile.IsEmbeddingEnabled() {
		return nil, errors.New("embedding api key not configured")
	}

	clientConfig := openai.DefaultConfig(profile.EmbeddingAPIKey)
	if profile.EmbeddingBaseURL != "" {
		clientConfig.BaseURL = profile.EmbeddingBaseURL
	}

	return &embeddingService{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      profile.EmbeddingModel,
		dimensions: profile.EmbeddingDim,
	}, nil
}

func (s *embeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.New("no text provided for embedding")
	}

	req := openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(s.model),
		Dimensions: s.dimensions,
	}
	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create embeddings")
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

func (s *embeddingService) Dimensions() int {
	return s.dimensions
}
