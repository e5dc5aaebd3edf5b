package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LocalSink implements Sink on a local append-only log file
type LocalSink struct {
	path string
	mu   sync.Mutex
	file *os.File
}

// NewLocalSink creates a local sink, creating the parent directory if needed
func NewLocalSink(path string) (*LocalSink, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create metrics directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open metrics log: %w", err)
	}

	return &LocalSink{
		path: path,
		file: file,
	}, nil
}

// Append writes one record to the log file. A mutex serializes concurrent
// writers so records never interleave.
func (s *LocalSink) Append(ctx context.Context, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(record); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// Close releases the underlying file
func (s *LocalSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
