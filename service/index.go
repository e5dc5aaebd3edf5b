package service

import (
	"context"
	"fmt"

	"supportrag-backend/models"
	"supportrag-backend/repository"
)

// VectorIndex implements DocumentIndex over the pgvector-backed chunk
// repository, embedding each query through the Gemini embedding API.
type VectorIndex struct {
	repo     *repository.DocChunkRepository
	embedder *GeminiEmbedder
}

// NewVectorIndex creates the production document index
func NewVectorIndex(repo *repository.DocChunkRepository, embedder *GeminiEmbedder) *VectorIndex {
	return &VectorIndex{
		repo:     repo,
		embedder: embedder,
	}
}

// Search embeds the query and returns up to k nearest chunks
func (idx *VectorIndex) Search(ctx context.Context, query string, k int) ([]models.DocChunk, error) {
	embedding, err := idx.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := idx.repo.SearchNearest(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	return chunks, nil
}
