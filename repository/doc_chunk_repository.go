package repository

import (
	"context"
	"fmt"
	"strings"

	"supportrag-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DocChunkRepository handles database operations for knowledge-base chunks
type DocChunkRepository struct {
	db *pgxpool.Pool
}

// NewDocChunkRepository creates a new doc chunk repository
func NewDocChunkRepository(db *pgxpool.Pool) *DocChunkRepository {
	return &DocChunkRepository{db: db}
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// SearchNearest performs a vector search over doc_chunks.
// embedding: Query embedding vector (768 dimensions)
// limit: Maximum number of chunks to return
// Results are ordered by ascending cosine distance.
func (r *DocChunkRepository) SearchNearest(
	ctx context.Context,
	embedding []float64,
	limit int,
) ([]models.DocChunk, error) {
	if len(embedding) != 768 {
		return nil, fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	vectorStr := formatVector(embedding)

	query := `
		SELECT
			id,
			chunk_text,
			source_document,
			doc_type,
			section,
			chunk_index,
			metadata,
			embedding <=> $1::vector AS distance
		FROM doc_chunks
		ORDER BY
			embedding <=> $1::vector
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, vectorStr, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query doc chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.DocChunk
	for rows.Next() {
		var chunk models.DocChunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.Text,
			&chunk.Source,
			&chunk.DocType,
			&chunk.Section,
			&chunk.ChunkIndex,
			&chunk.Metadata,
			&chunk.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doc chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doc chunks: %w", err)
	}

	return chunks, nil
}

// Insert stores a chunk with its embedding
func (r *DocChunkRepository) Insert(ctx context.Context, chunk *models.DocChunk, embedding []float64) error {
	if len(embedding) != 768 {
		return fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	query := `
		INSERT INTO doc_chunks (
			id, chunk_text, source_document, doc_type, section, chunk_index, metadata, embedding
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector)`

	_, err := r.db.Exec(ctx, query,
		chunk.ID,
		chunk.Text,
		chunk.Source,
		chunk.DocType,
		chunk.Section,
		chunk.ChunkIndex,
		chunk.Metadata,
		formatVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to insert doc chunk: %w", err)
	}

	return nil
}

// Count returns the number of indexed chunks
func (r *DocChunkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM doc_chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count doc chunks: %w", err)
	}
	return count, nil
}
