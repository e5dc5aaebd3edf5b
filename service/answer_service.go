package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"supportrag-backend/cache"
	"supportrag-backend/models"
)

// AnswerService runs the full triage pipeline for one question: priority
// classification, query expansion, retrieval consolidation, relevance gating,
// answer drafting, confidence scoring and the escalation decision.
type AnswerService struct {
	index   DocumentIndex
	llm     Completer
	judge   Completer
	engine  *EscalationEngine
	gateCfg RelevanceGateConfig
	weights ConfidenceWeights
	metrics *MetricsRecorder
	answers cache.AnswerCache
}

// AnswerServiceOption is a functional option for AnswerService
type AnswerServiceOption func(*AnswerService)

// WithDocumentIndex sets the document index
func WithDocumentIndex(index DocumentIndex) AnswerServiceOption {
	return func(s *AnswerService) {
		s.index = index
	}
}

// WithCompleter sets the language model used for expansion, classification
// and drafting
func WithCompleter(llm Completer) AnswerServiceOption {
	return func(s *AnswerService) {
		s.llm = llm
	}
}

// WithJudgeCompleter sets a separate language model for post-hoc judging.
// Defaults to the main completer when unset.
func WithJudgeCompleter(llm Completer) AnswerServiceOption {
	return func(s *AnswerService) {
		s.judge = llm
	}
}

// WithConfidenceThreshold sets the escalation threshold
func WithConfidenceThreshold(threshold float64) AnswerServiceOption {
	return func(s *AnswerService) {
		s.engine = NewEscalationEngine(threshold)
	}
}

// WithRelevanceGateConfig overrides the context assembly thresholds
func WithRelevanceGateConfig(cfg RelevanceGateConfig) AnswerServiceOption {
	return func(s *AnswerService) {
		s.gateCfg = cfg
	}
}

// WithConfidenceWeights overrides the scoring weight split
func WithConfidenceWeights(w ConfidenceWeights) AnswerServiceOption {
	return func(s *AnswerService) {
		s.weights = w
	}
}

// WithMetricsRecorder sets the metrics recorder
func WithMetricsRecorder(m *MetricsRecorder) AnswerServiceOption {
	return func(s *AnswerService) {
		s.metrics = m
	}
}

// WithAnswerCache sets the answer cache
func WithAnswerCache(c cache.AnswerCache) AnswerServiceOption {
	return func(s *AnswerService) {
		s.answers = c
	}
}

// NewAnswerService creates a new answer service
func NewAnswerService(opts ...AnswerServiceOption) *AnswerService {
	s := &AnswerService{
		engine:  NewEscalationEngine(DefaultConfidenceThreshold),
		gateCfg: DefaultRelevanceGateConfig(),
		weights: DefaultConfidenceWeights(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.judge == nil {
		s.judge = s.llm
	}
	return s
}

var (
	ErrQuestionTooShort = errors.New("question is empty or too short")
	ErrIndexNotSet      = errors.New("document index not set")
)

// minQuestionLength is a policy bound, not a hard invariant of the pipeline
const minQuestionLength = 5

const draftPrompt = `Ты — AI-агент поддержки Сбербанка.
Отвечай ТОЛЬКО на основе переданного контекста.
Не придумывай факты, суммы или условия, которых нет в контексте.
Если ответа в контексте нет — скажи: информации нет.

КОНТЕКСТ:
%s

ВОПРОС: %s

ОТВЕТ:`

// draftErrorMessage replaces the drafted answer when the language model
// fails. It reads as a refusal so the confidence scorer caps it low.
const draftErrorMessage = "Произошла ошибка при подготовке ответа, информации нет. " +
	"Рекомендую обратиться к специалисту поддержки."

// Ask runs the triage pipeline once and returns the final Answer. The only
// error surfaced to the caller is input validation; every external dependency
// failure degrades the quality of the decision, never its availability.
func (s *AnswerService) Ask(ctx context.Context, question string) (*models.Answer, error) {
	question = strings.TrimSpace(question)
	if len([]rune(question)) < minQuestionLength {
		return nil, ErrQuestionTooShort
	}
	if s.index == nil {
		return nil, ErrIndexNotSet
	}

	if s.answers != nil {
		if cached, err := s.answers.Get(ctx, question); err == nil && cached != nil {
			return cached, nil
		}
	}

	priority := ClassifyPriority(ctx, s.llm, question)

	queries := ExpandQuery(ctx, s.llm, question)
	consolidated := ConsolidateRetrieval(ctx, s.index, queries)

	if len(consolidated) == 0 {
		answer := s.terminalAnswer(priority,
			FloorAssessment(ConfidenceFloorNoDocuments, "no_documents"),
			NoDocumentsMessage())
		s.finish(ctx, question, answer)
		return answer, nil
	}

	questionTerms := ExtractCoreTerms(question)
	window := ApplyRelevanceGate(consolidated, questionTerms, s.gateCfg)

	if window.Empty() {
		answer := s.terminalAnswer(priority,
			FloorAssessment(ConfidenceFloorNoRelevant, "no_relevant_documents"),
			NoRelevantDocumentsMessage())
		s.finish(ctx, question, answer)
		return answer, nil
	}

	draft := s.draftAnswer(ctx, question, window)

	assessment := ScoreConfidence(draft, window, s.weights)
	decision := s.engine.Decide(priority, assessment.Score)

	var answer *models.Answer
	if assessment.Score < s.engine.Threshold() {
		// Confidence too low to vouch for the draft or its sources
		answer = &models.Answer{
			Answer:     FallbackMessage(priority),
			Sources:    []models.SourceCitation{},
			Priority:   priority,
			Escalation: decision.Tier,
			Reason:     decision.Reason,
			Confidence: assessment,
		}
	} else {
		answer = s.assembleAnswer(ctx, question, draft, window, priority, decision, assessment)
	}

	s.finish(ctx, question, answer)
	return answer, nil
}

// draftAnswer asks the language model for a grounded answer; failure degrades
// to the scripted error text.
func (s *AnswerService) draftAnswer(ctx context.Context, question string, window ContextWindow) string {
	if s.llm == nil {
		return draftErrorMessage
	}
	draft, err := s.llm.Complete(ctx, fmt.Sprintf(draftPrompt, window.Text(), question))
	if err != nil {
		log.Printf("Warning: answer drafting failed: %v", err)
		return draftErrorMessage
	}
	return draft
}

// assembleAnswer formats sources and merges the post-hoc judge verdict into
// the routing tier. The judge may raise the tier; the HIGH-priority override
// already in the decision is never lowered.
func (s *AnswerService) assembleAnswer(
	ctx context.Context,
	question string,
	draft string,
	window ContextWindow,
	priority models.PriorityLevel,
	decision models.EscalationDecision,
	assessment models.ConfidenceAssessment,
) *models.Answer {
	verdict := JudgeAnswer(ctx, s.judge, question, draft)

	tier := models.MaxTier(decision.Tier, verdict.ProposedTier)
	reason := decision.Reason
	if verdict.ProposedTier.Rank() > decision.Tier.Rank() {
		reason = fmt.Sprintf("judge raised routing to %s: %s", verdict.ProposedTier, verdict.Comment)
	} else if !verdict.Resolved {
		reason = fmt.Sprintf("%s; judge: %s", reason, verdict.Comment)
	}

	return &models.Answer{
		Answer:     draft,
		Sources:    FormatSources(window),
		Priority:   priority,
		Escalation: tier,
		Reason:     reason,
		Confidence: assessment,
	}
}

// terminalAnswer builds the deterministic escalation answer for the no-signal
// states. Sources are always empty here.
func (s *AnswerService) terminalAnswer(
	priority models.PriorityLevel,
	assessment models.ConfidenceAssessment,
	text string,
) *models.Answer {
	decision := s.engine.Decide(priority, assessment.Score)
	return &models.Answer{
		Answer:     text,
		Sources:    []models.SourceCitation{},
		Priority:   priority,
		Escalation: decision.Tier,
		Reason:     decision.Reason,
		Confidence: assessment,
	}
}

// finish records metrics and caches the answer, both best-effort
func (s *AnswerService) finish(ctx context.Context, question string, answer *models.Answer) {
	if s.metrics != nil {
		s.metrics.Record(ctx, question, answer)
	}
	if s.answers != nil {
		if err := s.answers.Set(ctx, question, answer); err != nil {
			log.Printf("Warning: failed to cache answer: %v", err)
		}
	}
}
