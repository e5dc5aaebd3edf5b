package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"supportrag-backend/models"
)

// JudgeVerdict is the post-hoc evaluation of a delivered answer. Defaults are
// filled once, immediately after the call; downstream code never sees partial
// data.
type JudgeVerdict struct {
	Resolved     bool                  `json:"resolved"`
	ProposedTier models.EscalationTier `json:"proposed_tier"`
	Comment      string                `json:"comment"`
}

// rawJudgeOutput mirrors the model's loosely specified JSON: every field is
// optional and validated before use.
type rawJudgeOutput struct {
	Resolved       *bool   `json:"resolved"`
	EscalationTier *string `json:"escalation_tier"`
	Comment        *string `json:"comment"`
}

const judgePrompt = `Ты — контролёр качества ответов банковской поддержки.
Оцени, решает ли ОТВЕТ проблему из ВОПРОСА.

ВОПРОС: %s

ОТВЕТ: %s

Верни строго JSON без пояснений:
{"resolved": true|false, "escalation_tier": "none"|"L1"|"L2"|"L3", "comment": "краткое обоснование"}`

// defaultVerdict is the conservative judgment used when the judge call fails
// or returns malformed output: assume the answer helped and let priority
// routing stand.
func defaultVerdict(reason string) JudgeVerdict {
	return JudgeVerdict{
		Resolved:     true,
		ProposedTier: models.TierNone,
		Comment:      reason,
	}
}

// JudgeAnswer asks the language model whether the drafted answer resolved the
// question. Any failure is recoverable and yields the conservative default.
func JudgeAnswer(ctx context.Context, llm Completer, question, answer string) JudgeVerdict {
	if llm == nil {
		return defaultVerdict("judge unavailable")
	}

	prompt := fmt.Sprintf(judgePrompt, question, answer)
	raw, err := llm.Complete(ctx, prompt)
	if err != nil {
		log.Printf("Warning: judge call failed, using default verdict: %v", err)
		return defaultVerdict("judge call failed")
	}

	var parsed rawJudgeOutput
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		log.Printf("Warning: judge returned malformed output, using default verdict: %v", err)
		return defaultVerdict("judge output malformed")
	}

	verdict := defaultVerdict("")
	if parsed.Resolved != nil {
		verdict.Resolved = *parsed.Resolved
	}
	if parsed.EscalationTier != nil {
		switch tier := models.EscalationTier(strings.TrimSpace(*parsed.EscalationTier)); tier {
		case models.TierNone, models.TierL1, models.TierL2, models.TierL3:
			verdict.ProposedTier = tier
		}
	}
	if parsed.Comment != nil {
		verdict.Comment = strings.TrimSpace(*parsed.Comment)
	}
	if verdict.Comment == "" {
		verdict.Comment = "no comment from judge"
	}

	// An unresolved answer without a proposed tier still needs a human
	if !verdict.Resolved && verdict.ProposedTier == models.TierNone {
		verdict.ProposedTier = models.TierL1
	}

	return verdict
}

// extractJSONObject trims markdown fences and surrounding prose, keeping the
// outermost object.
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
