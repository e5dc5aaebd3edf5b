package models

import (
	"github.com/google/uuid"
)

// DocChunk represents a chunk of support documentation from the knowledge base
type DocChunk struct {
	ID         uuid.UUID              `json:"id"`
	Text       string                 `json:"text"`
	Source     string                 `json:"source"`   // source document or page the chunk came from
	DocType    string                 `json:"doc_type"` // "faq", "tariff", "manual", "web"
	Section    string                 `json:"section,omitempty"`
	ChunkIndex int                    `json:"chunk_index"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Distance   float64                `json:"distance,omitempty"` // Vector similarity distance, lower = closer
}

// Relevancy converts the distance score into a similarity proxy.
// Distances are approximately in [0,1]; anything past 1 clamps to zero.
func (c DocChunk) Relevancy() float64 {
	r := 1.0 - c.Distance
	if r < 0 {
		return 0
	}
	return r
}
