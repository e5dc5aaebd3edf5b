package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
)

// Completer is the narrow interface to the external language model. It is
// used for paraphrase generation, priority classification, answer drafting and
// judging. Implementations must bound their own latency; callers validate the
// output before trusting it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	embeddingAPI   = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:embedContent"
	defaultModel   = "gemini-2.0-flash"
	maxRetries     = 3
	initialBackoff = time.Second
	llmTimeout     = 30 * time.Second
)

var ErrEmptyCompletion = errors.New("language model returned empty output")

// GeminiCompleter implements Completer on top of the Gemini client
type GeminiCompleter struct {
	client      *genai.Client
	modelName   string
	temperature float32
	timeout     time.Duration
}

// GeminiCompleterOption is a functional option for GeminiCompleter
type GeminiCompleterOption func(*GeminiCompleter)

// GeminiWithModel overrides the default model name
func GeminiWithModel(name string) GeminiCompleterOption {
	return func(c *GeminiCompleter) {
		c.modelName = name
	}
}

// GeminiWithTemperature sets the sampling temperature
func GeminiWithTemperature(t float32) GeminiCompleterOption {
	return func(c *GeminiCompleter) {
		c.temperature = t
	}
}

// GeminiWithTimeout bounds each completion call
func GeminiWithTimeout(d time.Duration) GeminiCompleterOption {
	return func(c *GeminiCompleter) {
		c.timeout = d
	}
}

// NewGeminiCompleter creates a completer backed by the Gemini API
func NewGeminiCompleter(client *genai.Client, opts ...GeminiCompleterOption) *GeminiCompleter {
	c := &GeminiCompleter{
		client:    client,
		modelName: defaultModel,
		timeout:   llmTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends the prompt to Gemini and returns the concatenated text parts
func (c *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", errors.New("gemini client not set")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(c.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}

	result := strings.TrimSpace(builder.String())
	if result == "" {
		return "", ErrEmptyCompletion
	}

	return result, nil
}

// EmbeddingRequest represents an embedding API request
type EmbeddingRequest struct {
	Model                string       `json:"model"`
	Content              ContentInput `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

// ContentInput represents content for embedding
type ContentInput struct {
	Parts []PartInput `json:"parts"`
}

// PartInput represents a part of content
type PartInput struct {
	Text string `json:"text"`
}

// EmbeddingResponse represents an embedding API response
type EmbeddingResponse struct {
	Embedding EmbeddingData `json:"embedding"`
}

// EmbeddingData contains the embedding values
type EmbeddingData struct {
	Values []float64 `json:"values"`
}

// GeminiEmbedder generates query embeddings via the Gemini embedding API
type GeminiEmbedder struct {
	httpClient *http.Client
}

// NewGeminiEmbedder creates an embedder with a bounded HTTP timeout
func NewGeminiEmbedder() *GeminiEmbedder {
	return &GeminiEmbedder{
		httpClient: &http.Client{Timeout: llmTimeout},
	}
}

// EmbedQuery generates a normalized 768-dimension embedding for a query
func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := EmbeddingRequest{
		Model: "models/gemini-embedding-001",
		Content: ContentInput{
			Parts: []PartInput{{Text: text}},
		},
		TaskType:             "RETRIEVAL_QUERY",
		OutputDimensionality: 768,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", embeddingAPI, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", apiKey)

		resp, err := e.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp EmbeddingResponse
			if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
				resp.Body.Close()
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("failed to decode response: %w", err)
				}
				continue
			}
			resp.Body.Close()
			return normalizeEmbedding(apiResp.Embedding.Values), nil
		}

		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("API error: %d", resp.StatusCode)
		}

		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return nil, errors.New("failed to generate embedding")
}

// normalizeEmbedding scales a vector to unit length
func normalizeEmbedding(embedding []float64) []float64 {
	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range embedding {
			embedding[i] /= norm
		}
	}
	return embedding
}
