package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"supportrag-backend/models"
)

// fakeCompleter returns a fixed response or error for every prompt
type fakeCompleter struct {
	response string
	err      error

	mu      sync.Mutex
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// scriptedCompleter routes each prompt to a role-specific response by
// matching the prompt templates used in the pipeline.
type scriptedCompleter struct {
	priority  string
	expansion string
	draft     string
	judge     string
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Классифицируй срочность"):
		return s.priority, nil
	case strings.Contains(prompt, "Перефразируй"):
		return s.expansion, nil
	case strings.Contains(prompt, "контролёр качества"):
		return s.judge, nil
	default:
		return s.draft, nil
	}
}

// fakeIndex returns the same chunk set for every query
type fakeIndex struct {
	chunks []models.DocChunk
	err    error

	mu      sync.Mutex
	queries []string
}

func (f *fakeIndex) Search(_ context.Context, query string, _ int) ([]models.DocChunk, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

// routedIndex returns a different chunk set per query
type routedIndex struct {
	byQuery map[string][]models.DocChunk
	err     map[string]error
}

func (r *routedIndex) Search(_ context.Context, query string, _ int) ([]models.DocChunk, error) {
	if err, ok := r.err[query]; ok {
		return nil, err
	}
	return r.byQuery[query], nil
}

func chunk(text string, distance float64) models.DocChunk {
	return models.DocChunk{
		ID:       uuid.New(),
		Text:     text,
		Source:   "faq_cards.txt",
		DocType:  "faq",
		Distance: distance,
	}
}

// memorySink collects appended records in memory
type memorySink struct {
	mu      sync.Mutex
	records [][]byte
	err     error
}

func (s *memorySink) Append(_ context.Context, record []byte) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(record))
	copy(cp, record)
	s.records = append(s.records, cp)
	return nil
}
