package service

import (
	"strings"

	"supportrag-backend/models"
)

// RelevanceGateConfig holds the thresholds for context assembly
type RelevanceGateConfig struct {
	MaxDistance float64 // documents beyond this distance are excluded as noise
	MinMatches  int     // question terms that must appear in a document
	CharBudget  int     // total context size cap in characters
	MaxDocs     int     // document count cap
}

// DefaultRelevanceGateConfig returns the tuned production thresholds
func DefaultRelevanceGateConfig() RelevanceGateConfig {
	return RelevanceGateConfig{
		MaxDistance: 0.95,
		MinMatches:  1,
		CharBudget:  3800,
		MaxDocs:     5,
	}
}

// ContextWindow is the bounded set of retrieved chunks that ground the
// drafted answer. An empty window is a first-class terminal state, not an
// error.
type ContextWindow struct {
	Docs []models.DocChunk
}

// Empty reports whether no document survived the gate
func (w ContextWindow) Empty() bool {
	return len(w.Docs) == 0
}

// Text joins the surviving chunks into the grounding context for drafting
func (w ContextWindow) Text() string {
	parts := make([]string, 0, len(w.Docs))
	for _, d := range w.Docs {
		parts = append(parts, strings.TrimSpace(d.Text))
	}
	return strings.Join(parts, "\n\n")
}

// ApplyRelevanceGate walks the consolidated, sorted chunks in order and
// accepts a chunk only if its distance is under the bound and its content is
// lexically supported by the question terms. Accumulation stops at the
// character budget or the document cap, whichever comes first.
func ApplyRelevanceGate(chunks []models.DocChunk, questionTerms map[string]struct{}, cfg RelevanceGateConfig) ContextWindow {
	window := ContextWindow{}
	used := 0

	for _, chunk := range chunks {
		if len(window.Docs) >= cfg.MaxDocs {
			break
		}
		if chunk.Distance >= cfg.MaxDistance {
			// chunks are sorted ascending, everything after is noise too
			break
		}
		content := strings.TrimSpace(chunk.Text)
		if content == "" {
			continue
		}
		if !ContextSupportsTerms(content, questionTerms, cfg.MinMatches) {
			continue
		}
		if used+len(content) > cfg.CharBudget && len(window.Docs) > 0 {
			break
		}
		window.Docs = append(window.Docs, chunk)
		used += len(content)
	}

	return window
}
