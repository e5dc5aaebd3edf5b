package service

import (
	"context"
	"log"
	"strings"

	"supportrag-backend/models"
)

// criticalPhrases force HIGH priority unconditionally. Loss, theft, fraud,
// unauthorized debits and account freezes must never be triaged below the
// security tier, whatever the classifiers say.
var criticalPhrases = []string{
	"списали деньги", "списание без", "без разрешения", "без моего ведома",
	"украли", "кража", "мошенник", "мошеннич", "потерял карту", "потеряла карту",
	"заблокировали счет", "заблокировали счёт", "заморозили",
	"unauthorized", "stolen", "fraud", "lost my card", "account frozen",
}

var highPriorityPhrases = []string{
	"не работает", "не могу войти", "не проходит платеж", "не проходит платёж",
	"ошибка перевода", "двойное списание", "деньги не пришли", "срочно",
	"cannot log in", "payment failed", "money missing", "urgent",
}

var mediumPriorityPhrases = []string{
	"комиссия", "лимит", "не отображается", "долго", "задержка",
	"как вернуть", "спорная операция", "чарджбэк", "chargeback",
	"fee", "limit", "delayed", "dispute",
}

const priorityPrompt = `Классифицируй срочность вопроса клиента банковской поддержки.
Ответь ровно одним словом: LOW, MEDIUM или HIGH.

LOW — справочный вопрос, ничего не сломано.
MEDIUM — что-то неудобно или непонятно, но деньги в безопасности.
HIGH — деньги, доступ или безопасность под угрозой.

ВОПРОС: %s

ОТВЕТ:`

// ClassifyPriority derives the severity of a question. The LLM signal is
// preferred, keyword rules are the fallback, and the critical-phrase override
// runs last and unconditionally.
func ClassifyPriority(ctx context.Context, llm Completer, question string) models.PriorityLevel {
	priority := classifyPriorityLLM(ctx, llm, question)
	if priority == "" {
		priority = classifyPriorityKeywords(question)
	}

	if containsCriticalPhrase(question) {
		priority = models.PriorityHigh
	}

	return priority
}

// classifyPriorityLLM asks the model for a single-word forced choice.
// Returns empty on any failure so the caller can fall back.
func classifyPriorityLLM(ctx context.Context, llm Completer, question string) models.PriorityLevel {
	if llm == nil {
		return ""
	}

	raw, err := llm.Complete(ctx, strings.Replace(priorityPrompt, "%s", question, 1))
	if err != nil {
		log.Printf("Warning: priority classification failed, falling back to keywords: %v", err)
		return ""
	}

	token := strings.ToUpper(strings.TrimSpace(raw))
	// Tolerate models that wrap the word in punctuation or a sentence
	for _, candidate := range []models.PriorityLevel{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		if strings.Contains(token, string(candidate)) {
			return candidate
		}
	}

	log.Printf("Warning: unrecognized priority token %q, falling back to keywords", token)
	return ""
}

// classifyPriorityKeywords runs the curated phrase sets. HIGH takes
// precedence over MEDIUM, which takes precedence over the LOW default.
func classifyPriorityKeywords(question string) models.PriorityLevel {
	folded := strings.ToLower(question)

	for _, phrase := range highPriorityPhrases {
		if strings.Contains(folded, phrase) {
			return models.PriorityHigh
		}
	}
	for _, phrase := range mediumPriorityPhrases {
		if strings.Contains(folded, phrase) {
			return models.PriorityMedium
		}
	}
	return models.PriorityLow
}

func containsCriticalPhrase(question string) bool {
	folded := strings.ToLower(question)
	for _, phrase := range criticalPhrases {
		if strings.Contains(folded, phrase) {
			return true
		}
	}
	return false
}
