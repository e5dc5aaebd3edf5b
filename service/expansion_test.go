package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandQueryIncludesOriginalFirst(t *testing.T) {
	llm := &fakeCompleter{response: "- Как восстановить доступ к приложению?\n- Что делать, если не получается войти в приложение?"}

	queries := ExpandQuery(context.Background(), llm, "Не могу войти в приложение")

	require.Len(t, queries, 3)
	require.Equal(t, "Не могу войти в приложение", queries[0])
	require.Equal(t, "Как восстановить доступ к приложению?", queries[1])
}

func TestExpandQueryStripsListMarkers(t *testing.T) {
	llm := &fakeCompleter{response: "1. «Как заблокировать карту через приложение?»\n2) \"Блокировка карты при утере\""}

	queries := ExpandQuery(context.Background(), llm, "потерял карту, что делать")

	require.Equal(t, []string{
		"потерял карту, что делать",
		"Как заблокировать карту через приложение?",
		"Блокировка карты при утере",
	}, queries)
}

func TestExpandQueryDeduplicatesAgainstOriginal(t *testing.T) {
	llm := &fakeCompleter{response: "КАК ПОПОЛНИТЬ ВКЛАД\nкак пополнить вклад\nКак пополнить вклад онлайн"}

	queries := ExpandQuery(context.Background(), llm, "как пополнить вклад")

	require.Equal(t, []string{"как пополнить вклад", "Как пополнить вклад онлайн"}, queries)
}

func TestExpandQueryCapsFanout(t *testing.T) {
	llm := &fakeCompleter{response: "вариант первый про карту\nвариант второй про карту\nвариант третий про карту\nвариант четвёртый про карту\nвариант пятый про карту"}

	queries := ExpandQuery(context.Background(), llm, "вопрос про карту")

	require.Len(t, queries, maxExpandedQueries)
}

func TestExpandQueryDropsDegenerateLines(t *testing.T) {
	llm := &fakeCompleter{response: "да\n-\n\nКак изменить лимит по карте?"}

	queries := ExpandQuery(context.Background(), llm, "лимит по карте")

	require.Equal(t, []string{"лимит по карте", "Как изменить лимит по карте?"}, queries)
}

func TestExpandQueryFailureFallsBackToOriginal(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("model unavailable")}

	queries := ExpandQuery(context.Background(), llm, "как открыть вклад")

	require.Equal(t, []string{"как открыть вклад"}, queries)
}

func TestExpandQueryNilCompleter(t *testing.T) {
	queries := ExpandQuery(context.Background(), nil, "как открыть вклад")

	require.Equal(t, []string{"как открыть вклад"}, queries)
}
