package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Sink is an append-only destination for metrics records. Each Append writes
// one complete record; there is no read-modify-write and concurrent callers
// must be tolerated.
type Sink interface {
	Append(ctx context.Context, record []byte) error
}

// SinkType represents the sink backend type
type SinkType string

const (
	SinkTypeLocal SinkType = "local"
	SinkTypeS3    SinkType = "s3"
)

// SinkConfig holds configuration for the metrics sink
type SinkConfig struct {
	Type         SinkType
	LocalPath    string // For local sink: path to the log file
	S3Bucket     string // For S3 sink
	S3Prefix     string // Key prefix for records
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewSink creates a sink instance based on configuration
func NewSink(cfg SinkConfig) (Sink, error) {
	switch cfg.Type {
	case SinkTypeLocal:
		return NewLocalSink(cfg.LocalPath)
	case SinkTypeS3:
		return NewS3Sink(cfg)
	default:
		return nil, fmt.Errorf("unknown sink type: %s", cfg.Type)
	}
}

// NewSinkFromEnv creates a sink instance from environment variables
func NewSinkFromEnv() (Sink, error) {
	sinkType := os.Getenv("METRICS_SINK")
	if sinkType == "" {
		sinkType = "local" // Default to local for development
	}

	switch SinkType(sinkType) {
	case SinkTypeLocal:
		path := os.Getenv("METRICS_LOCAL_PATH")
		if path == "" {
			path = "./storage/metrics/confidence.log"
		}
		return NewLocalSink(path)

	case SinkTypeS3:
		cfg := SinkConfig{
			Type:         SinkTypeS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Prefix:     os.Getenv("METRICS_S3_PREFIX"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1" // Default region
		}
		if cfg.S3Prefix == "" {
			cfg.S3Prefix = "metrics/confidence"
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 sink")
		}
		return NewS3Sink(cfg)

	default:
		return nil, fmt.Errorf("unknown sink type: %s", sinkType)
	}
}
