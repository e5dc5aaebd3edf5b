package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"supportrag-backend/models"
)

func gateTestChunks() []models.DocChunk {
	return []models.DocChunk{
		chunk("Заблокировать карту можно в приложении в разделе Карты.", 0.2),
		chunk("Перевыпустить карту после блокировки можно в офисе, это занимает до 14 дней.", 0.4),
		chunk("Условия по ипотечным программам для зарплатных клиентов.", 0.5),
	}
}

func TestApplyRelevanceGateFiltersByTerms(t *testing.T) {
	terms := ExtractCoreTerms("как заблокировать карту")

	window := ApplyRelevanceGate(gateTestChunks(), terms, DefaultRelevanceGateConfig())

	require.Len(t, window.Docs, 2)
	for _, doc := range window.Docs {
		require.Contains(t, strings.ToLower(doc.Text), "карту")
	}
}

func TestApplyRelevanceGateDistanceBound(t *testing.T) {
	chunks := []models.DocChunk{
		chunk("карту можно заблокировать", 0.3),
		chunk("карту можно перевыпустить", 0.96),
	}
	terms := ExtractCoreTerms("карту")

	window := ApplyRelevanceGate(chunks, terms, DefaultRelevanceGateConfig())

	require.Len(t, window.Docs, 1)
	require.Equal(t, 0.3, window.Docs[0].Distance)
}

func TestApplyRelevanceGateDocCap(t *testing.T) {
	var chunks []models.DocChunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, chunk("про карту, вариант", float64(i)*0.05))
	}
	cfg := DefaultRelevanceGateConfig()
	cfg.MaxDocs = 3

	// Dedup happens upstream; the gate itself only caps
	window := ApplyRelevanceGate(chunks, ExtractCoreTerms("карту"), cfg)

	require.Len(t, window.Docs, 3)
}

func TestApplyRelevanceGateCharBudget(t *testing.T) {
	long := strings.Repeat("карту можно заблокировать. ", 20) // ~540 chars of text
	chunks := []models.DocChunk{
		chunk(long, 0.1),
		chunk(long, 0.2),
		chunk(long, 0.3),
	}
	cfg := DefaultRelevanceGateConfig()
	cfg.CharBudget = len(long) + 10

	window := ApplyRelevanceGate(chunks, ExtractCoreTerms("карту"), cfg)

	require.Len(t, window.Docs, 1)
}

func TestApplyRelevanceGateFirstDocExceedsBudget(t *testing.T) {
	long := strings.Repeat("про карту ", 100)
	cfg := DefaultRelevanceGateConfig()
	cfg.CharBudget = 50

	// A single oversized document is still admitted: an empty window would
	// discard the only available signal
	window := ApplyRelevanceGate([]models.DocChunk{chunk(long, 0.1)}, ExtractCoreTerms("карту"), cfg)

	require.Len(t, window.Docs, 1)
}

func TestApplyRelevanceGateSkipsEmptyContent(t *testing.T) {
	chunks := []models.DocChunk{
		chunk("   \n ", 0.1),
		chunk("карту можно заблокировать", 0.2),
	}

	window := ApplyRelevanceGate(chunks, ExtractCoreTerms("карту"), DefaultRelevanceGateConfig())

	require.Len(t, window.Docs, 1)
	require.Equal(t, 0.2, window.Docs[0].Distance)
}

func TestApplyRelevanceGateEmptyInput(t *testing.T) {
	window := ApplyRelevanceGate(nil, ExtractCoreTerms("карту"), DefaultRelevanceGateConfig())

	require.True(t, window.Empty())
	require.Equal(t, "", window.Text())
}

func TestContextWindowText(t *testing.T) {
	window := ContextWindow{Docs: []models.DocChunk{
		chunk("  первый фрагмент ", 0.1),
		chunk("второй фрагмент", 0.2),
	}}

	require.Equal(t, "первый фрагмент\n\nвторой фрагмент", window.Text())
}
