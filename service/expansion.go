package service

import (
	"context"
	"log"
	"strings"
)

const (
	// maxExpandedQueries caps the total query fanout, original included,
	// to bound downstream retrieval cost.
	maxExpandedQueries = 4
	// minExpansionLength drops degenerate paraphrase lines
	minExpansionLength = 8
)

const expansionPrompt = `Перефразируй вопрос пользователя 2-3 способами.
Сохрани смысл, не добавляй новые факты.
Верни только список вариантов, по одному на строку, без пояснений.

ВОПРОС: %s`

// ExpandQuery asks the language model for meaning-preserving paraphrases of
// the question and returns them together with the original, sanitized and
// de-duplicated. Any LLM failure is recoverable: the original question alone
// is returned and the request proceeds.
func ExpandQuery(ctx context.Context, llm Completer, question string) []string {
	queries := []string{question}
	if llm == nil {
		return queries
	}

	raw, err := llm.Complete(ctx, strings.Replace(expansionPrompt, "%s", question, 1))
	if err != nil {
		log.Printf("Warning: query expansion failed, using original question only: %v", err)
		return queries
	}

	seen := map[string]struct{}{
		normalizeQuery(question): {},
	}

	for _, line := range strings.Split(raw, "\n") {
		candidate := stripListMarkers(line)
		if len([]rune(candidate)) < minExpansionLength {
			continue
		}
		key := normalizeQuery(candidate)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		queries = append(queries, candidate)
		if len(queries) >= maxExpandedQueries {
			break
		}
	}

	return queries
}

// stripListMarkers removes leading bullets, numbering and surrounding quotes
// from a paraphrase line.
func stripListMarkers(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-•*0123456789.) ")
	s = strings.Trim(s, `"«»`)
	return strings.TrimSpace(s)
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
