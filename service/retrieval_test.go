package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"supportrag-backend/models"
)

func TestConsolidateRetrievalSortsAscending(t *testing.T) {
	index := &fakeIndex{chunks: []models.DocChunk{
		chunk("перевыпуск карты занимает до 14 дней", 0.8),
		chunk("карту можно заблокировать в приложении", 0.2),
		chunk("лимит на переводы составляет миллион рублей", 0.5),
	}}

	result := ConsolidateRetrieval(context.Background(), index, []string{"вопрос про карту"})

	require.Len(t, result, 3)
	require.True(t, sort.SliceIsSorted(result, func(i, j int) bool {
		return result[i].Distance < result[j].Distance
	}))
	require.Equal(t, 0.2, result[0].Distance)
}

func TestConsolidateRetrievalDeduplicatesKeepingBest(t *testing.T) {
	// The same content arrives from two queries at different distances
	index := &routedIndex{byQuery: map[string][]models.DocChunk{
		"q1": {chunk("карту можно заблокировать в приложении", 0.6)},
		"q2": {chunk("Карту  можно заблокировать в приложении", 0.3)},
	}}

	result := ConsolidateRetrieval(context.Background(), index, []string{"q1", "q2"})

	require.Len(t, result, 1)
	require.Equal(t, 0.3, result[0].Distance)
}

func TestConsolidateRetrievalFingerprintIgnoresCaseAndSpacing(t *testing.T) {
	a := contentFingerprint("Лимит на ПЕРЕВОДЫ — миллион")
	b := contentFingerprint("лимит  на переводы — миллион\n")
	require.Equal(t, a, b)

	c := contentFingerprint("лимит на вклады")
	require.NotEqual(t, a, c)
}

func TestConsolidateRetrievalPartialFailure(t *testing.T) {
	index := &routedIndex{
		byQuery: map[string][]models.DocChunk{
			"ok": {chunk("условия по вкладам", 0.4)},
		},
		err: map[string]error{
			"broken": errors.New("index timeout"),
		},
	}

	result := ConsolidateRetrieval(context.Background(), index, []string{"ok", "broken"})

	require.Len(t, result, 1)
	require.Equal(t, "условия по вкладам", result[0].Text)
}

func TestConsolidateRetrievalAllQueriesFail(t *testing.T) {
	index := &fakeIndex{err: errors.New("index down")}

	result := ConsolidateRetrieval(context.Background(), index, []string{"a", "b"})

	require.Empty(t, result)
}

func TestConsolidateRetrievalEmptyInputs(t *testing.T) {
	require.Nil(t, ConsolidateRetrieval(context.Background(), nil, []string{"q"}))
	require.Nil(t, ConsolidateRetrieval(context.Background(), &fakeIndex{}, nil))
}

func TestConsolidateRetrievalQueriesEveryExpansion(t *testing.T) {
	index := &fakeIndex{}

	ConsolidateRetrieval(context.Background(), index, []string{"a", "b", "c"})

	require.ElementsMatch(t, []string{"a", "b", "c"}, index.queries)
}
