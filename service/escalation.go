package service

import (
	"fmt"

	"supportrag-backend/models"
)

// EscalationEngine maps (priority, confidence, threshold) to a terminal
// routing tier. Tier assignment is monotonic: later steps may raise the tier
// via models.MaxTier but never lower it.
type EscalationEngine struct {
	threshold float64
}

// NewEscalationEngine creates an engine with the given confidence threshold
func NewEscalationEngine(threshold float64) *EscalationEngine {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &EscalationEngine{threshold: threshold}
}

// Threshold returns the configured confidence threshold
func (e *EscalationEngine) Threshold() float64 {
	return e.threshold
}

// Decide evaluates the state machine once per request after confidence is
// known. Below threshold, the tier follows priority and the drafted answer is
// replaced by scripted copy with sources withheld. At or above threshold the
// question is answered, but HIGH priority still forces an L3 routing tag for
// mandatory human follow-up.
func (e *EscalationEngine) Decide(priority models.PriorityLevel, confidence float64) models.EscalationDecision {
	if confidence < e.threshold {
		tier := tierForPriority(priority)
		return models.EscalationDecision{
			Tier: tier,
			Reason: fmt.Sprintf("confidence %.4f below threshold %.2f, routed to %s by %s priority",
				confidence, e.threshold, tier, priority),
		}
	}

	if priority == models.PriorityHigh {
		return models.EscalationDecision{
			Tier:   models.TierL3,
			Reason: "answered, but HIGH priority requires mandatory L3 follow-up",
		}
	}

	return models.EscalationDecision{
		Tier:   models.TierNone,
		Reason: fmt.Sprintf("confidence %.4f meets threshold %.2f", confidence, e.threshold),
	}
}

func tierForPriority(priority models.PriorityLevel) models.EscalationTier {
	switch priority {
	case models.PriorityHigh:
		return models.TierL3
	case models.PriorityMedium:
		return models.TierL2
	default:
		return models.TierL1
	}
}

// FallbackMessage returns the scripted, priority-specific copy that replaces
// a low-confidence drafted answer.
func FallbackMessage(priority models.PriorityLevel) string {
	switch priority {
	case models.PriorityHigh:
		return "Ваш вопрос касается безопасности средств и требует проверки специалистом. " +
			"Я передаю обращение в службу финансовой безопасности, с вами свяжутся в приоритетном порядке. " +
			"Если вы подозреваете мошенничество, заблокируйте карту в приложении или по телефону 900."
	case models.PriorityMedium:
		return "Я не могу уверенно ответить на этот вопрос. " +
			"Передаю обращение специалисту технической поддержки, он разберётся в деталях и ответит вам."
	default:
		return "У меня недостаточно информации, чтобы ответить уверенно. " +
			"Передаю ваш вопрос оператору поддержки."
	}
}

// NoDocumentsMessage is the scripted answer when retrieval returns nothing
func NoDocumentsMessage() string {
	return "В моей базе знаний нет информации по этому вопросу. " +
		"Рекомендую обратиться к специалисту поддержки."
}

// NoRelevantDocumentsMessage is the scripted answer when retrieval returned
// candidates but none passed the relevance gate. Distinct from the empty
// retrieval case: some signal existed but was insufficient.
func NoRelevantDocumentsMessage() string {
	return "Мне не удалось найти материалы, достаточно близкие к вашему вопросу. " +
		"Передаю обращение специалисту поддержки."
}
