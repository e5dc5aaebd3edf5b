package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sort"
	"strings"
	"sync"

	"supportrag-backend/models"
)

// DocumentIndex is the narrow interface to the external nearest-neighbor
// index. Results carry distance scores where lower means closer; ordering of
// the returned slice is not assumed.
type DocumentIndex interface {
	Search(ctx context.Context, query string, k int) ([]models.DocChunk, error)
}

const (
	// retrievalFanout is the per-query candidate count
	retrievalFanout = 8
	// fingerprintPrefixLen bounds how much content feeds the dedup key.
	// Two distinct documents sharing a 200-char normalized prefix collide;
	// an accepted approximation for near-identical chunks.
	fingerprintPrefixLen = 200
)

// ConsolidateRetrieval issues one index lookup per expanded query, pools the
// results, de-duplicates them by content fingerprint keeping the lower
// distance, and returns a single ascending-distance-ordered sequence. Lookups
// run concurrently as a throughput optimization only; results are re-sorted
// regardless of arrival order. A failed lookup degrades that query's
// contribution to nothing, never the whole request.
func ConsolidateRetrieval(ctx context.Context, index DocumentIndex, queries []string) []models.DocChunk {
	if index == nil || len(queries) == 0 {
		return nil
	}

	pooled := make([]models.DocChunk, 0, len(queries)*retrievalFanout)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, q := range queries {
		wg.Add(1)
		go func(query string) {
			defer wg.Done()
			chunks, err := index.Search(ctx, query, retrievalFanout)
			if err != nil {
				log.Printf("Warning: index lookup failed for query %q: %v", query, err)
				return
			}
			mu.Lock()
			pooled = append(pooled, chunks...)
			mu.Unlock()
		}(q)
	}
	wg.Wait()

	byFingerprint := make(map[string]models.DocChunk, len(pooled))
	for _, chunk := range pooled {
		fp := contentFingerprint(chunk.Text)
		if existing, ok := byFingerprint[fp]; !ok || chunk.Distance < existing.Distance {
			byFingerprint[fp] = chunk
		}
	}

	consolidated := make([]models.DocChunk, 0, len(byFingerprint))
	for _, chunk := range byFingerprint {
		consolidated = append(consolidated, chunk)
	}

	sort.SliceStable(consolidated, func(i, j int) bool {
		return consolidated[i].Distance < consolidated[j].Distance
	})

	return consolidated
}

// contentFingerprint hashes the normalized content prefix for duplicate
// detection across overlapping chunks.
func contentFingerprint(text string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	runes := []rune(normalized)
	if len(runes) > fingerprintPrefixLen {
		normalized = string(runes[:fingerprintPrefixLen])
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
