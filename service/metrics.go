package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"supportrag-backend/models"
	"supportrag-backend/storage"
)

const questionPreviewLimit = 80

// ConfidenceRecord is the one JSON line persisted per request
type ConfidenceRecord struct {
	RequestID       string                             `json:"request_id"`
	Timestamp       time.Time                          `json:"timestamp"`
	QuestionPreview string                             `json:"question_preview"`
	Confidence      float64                            `json:"confidence"`
	Interpretation  string                             `json:"interpretation"`
	Breakdown       map[string]models.ConfidenceFactor `json:"breakdown"`
	Priority        models.PriorityLevel               `json:"priority"`
	EscalationTier  models.EscalationTier              `json:"escalation_tier"`
}

// ConfidenceStats is the aggregated read-only view served over HTTP
type ConfidenceStats struct {
	Count            int64            `json:"count"`
	Average          float64          `json:"average"`
	Min              float64          `json:"min"`
	Max              float64          `json:"max"`
	ByInterpretation map[string]int64 `json:"by_interpretation"`
	ByEscalationTier map[string]int64 `json:"by_escalation_tier"`
}

// MetricsRecorder appends confidence records to a sink and keeps running
// aggregates. Each request appends exactly one line; concurrent writers are
// expected and there is no read-modify-write against the sink.
type MetricsRecorder struct {
	sink storage.Sink

	mu       sync.Mutex
	count    int64
	sum      float64
	min      float64
	max      float64
	byInterp map[string]int64
	byTier   map[string]int64
}

// NewMetricsRecorder creates a recorder over the given sink. A nil sink keeps
// aggregates only.
func NewMetricsRecorder(sink storage.Sink) *MetricsRecorder {
	return &MetricsRecorder{
		sink:     sink,
		byInterp: make(map[string]int64),
		byTier:   make(map[string]int64),
	}
}

// Record persists one confidence record best-effort. A sink failure is logged
// and swallowed, never surfaced to the caller.
func (m *MetricsRecorder) Record(ctx context.Context, question string, answer *models.Answer) {
	record := ConfidenceRecord{
		RequestID:       uuid.New().String(),
		Timestamp:       time.Now().UTC(),
		QuestionPreview: truncateSnippet(question, questionPreviewLimit),
		Confidence:      answer.Confidence.Score,
		Interpretation:  answer.Confidence.Interpretation,
		Breakdown:       answer.Confidence.Breakdown,
		Priority:        answer.Priority,
		EscalationTier:  answer.Escalation,
	}

	m.mu.Lock()
	if m.count == 0 || record.Confidence < m.min {
		m.min = record.Confidence
	}
	if record.Confidence > m.max {
		m.max = record.Confidence
	}
	m.count++
	m.sum += record.Confidence
	m.byInterp[record.Interpretation]++
	m.byTier[string(record.EscalationTier)]++
	m.mu.Unlock()

	if m.sink == nil {
		return
	}

	line, err := json.Marshal(record)
	if err != nil {
		log.Printf("Warning: failed to marshal confidence record: %v", err)
		return
	}
	if err := m.sink.Append(ctx, append(line, '\n')); err != nil {
		log.Printf("Warning: failed to append confidence record: %v", err)
	}
}

// Stats returns a snapshot of the running aggregates
func (m *MetricsRecorder) Stats() ConfidenceStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := ConfidenceStats{
		Count:            m.count,
		Min:              m.min,
		Max:              m.max,
		ByInterpretation: make(map[string]int64, len(m.byInterp)),
		ByEscalationTier: make(map[string]int64, len(m.byTier)),
	}
	if m.count > 0 {
		stats.Average = m.sum / float64(m.count)
	}
	for k, v := range m.byInterp {
		stats.ByInterpretation[k] = v
	}
	for k, v := range m.byTier {
		stats.ByEscalationTier[k] = v
	}
	return stats
}
