package service

import (
	"math"
	"regexp"
	"strings"

	"supportrag-backend/models"
)

// ConfidenceWeights is the tunable policy split between scoring factors.
// The factor structure is the contract; the weight values are not. The
// weighted sum is clamped to [0,1].
type ConfidenceWeights struct {
	BestDocRelevancy float64
	TopAvgRelevancy  float64
	AnswerQuality    float64
	ContextAlignment float64
	InstructionBonus float64
}

// DefaultConfidenceWeights returns the production weight split
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{
		BestDocRelevancy: 0.30,
		TopAvgRelevancy:  0.20,
		AnswerQuality:    0.25,
		ContextAlignment: 0.25,
		InstructionBonus: 0.10,
	}
}

const (
	// topAvgCount is how many of the best used documents feed the average
	topAvgCount = 3
	// alignmentFloor keeps a topically-aligned answer from scoring as
	// "no alignment" when term overlap is sparse
	alignmentFloor = 0.4
	// refusalScoreCap bounds the final score when the answer reads as a
	// refusal: a refusal must never be interpreted above "low"
	refusalScoreCap = 0.55
	// scorePrecision is the rounding applied to the final value
	scorePrecision = 4

	// Floors for the no-signal terminal states. The relevant-context floor
	// sits above the empty-retrieval floor because some signal existed.
	ConfidenceFloorNoDocuments = 0.05
	ConfidenceFloorNoRelevant  = 0.15
	DefaultConfidenceThreshold = 0.6
)

// Interpretation label boundaries
const (
	interpHigh   = 0.8
	interpMedium = 0.6
	interpLow    = 0.4
)

// refusalPhrases mark an answer as a non-answer. Their absence carries the
// dominant weight inside the quality blend: a refusal must never read as
// confident.
var refusalPhrases = []string{
	"нет информации", "информации нет", "не знаю", "не могу ответить",
	"нет данных", "не располагаю",
	"no information", "don't know", "do not know", "cannot answer",
}

var (
	numberedListPattern = regexp.MustCompile(`(?m)^\s*(\d+[.)]|[-•*])\s+`)
	digitPattern        = regexp.MustCompile(`\d`)
)

// sequencingWords signal concrete step-by-step instructions
var sequencingWords = []string{
	"сначала", "затем", "после этого", "далее", "откройте", "нажмите",
	"перейдите", "выберите", "введите",
	"first", "then", "next", "open", "tap", "go to", "select",
}

// instructionalVocabulary is a wider set used for the alignment bonus
var instructionalVocabulary = []string{
	"приложение", "раздел", "настройки", "заявление", "офис", "банкомат",
	"инструкция", "шаг",
	"app", "section", "settings", "branch", "atm", "step",
}

// Interpret maps a score to its human-readable confidence label
func Interpret(score float64) string {
	switch {
	case score >= interpHigh:
		return "high"
	case score >= interpMedium:
		return "medium"
	case score >= interpLow:
		return "low"
	default:
		return "very low"
	}
}

// FloorAssessment builds the fixed-confidence assessment for the no-signal
// terminal states; nothing is computed.
func FloorAssessment(floor float64, factorName string) models.ConfidenceAssessment {
	return models.ConfidenceAssessment{
		Score:          floor,
		Interpretation: Interpret(floor),
		Breakdown: map[string]models.ConfidenceFactor{
			factorName: {Value: floor, Weight: 1, Contribution: floor},
		},
	}
}

// ScoreConfidence combines document relevancy, answer quality and
// answer/context alignment into one calibrated value with a full factor
// breakdown. The post-weighting contributions sum to the final score within
// rounding tolerance; clamping and the refusal cap are recorded as explicit
// negative adjustments so the invariant holds for all inputs.
func ScoreConfidence(answer string, window ContextWindow, weights ConfidenceWeights) models.ConfidenceAssessment {
	breakdown := make(map[string]models.ConfidenceFactor)

	bestRelevancy := 0.0
	if len(window.Docs) > 0 {
		bestRelevancy = window.Docs[0].Relevancy()
	}
	addFactor(breakdown, "best_doc_relevancy", bestRelevancy, weights.BestDocRelevancy)

	topAvg := averageRelevancy(window, topAvgCount)
	addFactor(breakdown, "top_avg_relevancy", topAvg, weights.TopAvgRelevancy)

	quality, refused := answerQualityScore(answer, breakdown)
	addFactor(breakdown, "answer_quality", quality, weights.AnswerQuality)

	alignment := contextAlignmentScore(answer, window)
	addFactor(breakdown, "context_alignment", alignment, weights.ContextAlignment)

	bonus := 0.0
	if hasInstructionMarkers(answer) {
		bonus = 1.0
	}
	addFactor(breakdown, "instruction_bonus", bonus, weights.InstructionBonus)

	total := bestRelevancy*weights.BestDocRelevancy +
		topAvg*weights.TopAvgRelevancy +
		quality*weights.AnswerQuality +
		alignment*weights.ContextAlignment +
		bonus*weights.InstructionBonus

	if total > 1 {
		breakdown["clamp_adjustment"] = models.ConfidenceFactor{
			Value:        total - 1,
			Weight:       -1,
			Contribution: -(total - 1),
		}
		total = 1
	}
	if total < 0 {
		total = 0
	}

	if refused && total > refusalScoreCap {
		breakdown["refusal_cap"] = models.ConfidenceFactor{
			Value:        total - refusalScoreCap,
			Weight:       -1,
			Contribution: -(total - refusalScoreCap),
		}
		total = refusalScoreCap
	}

	score := roundScore(total)
	return models.ConfidenceAssessment{
		Score:          score,
		Interpretation: Interpret(score),
		Breakdown:      breakdown,
	}
}

func addFactor(breakdown map[string]models.ConfidenceFactor, name string, value, weight float64) {
	breakdown[name] = models.ConfidenceFactor{
		Value:        value,
		Weight:       weight,
		Contribution: value * weight,
	}
}

func averageRelevancy(window ContextWindow, n int) float64 {
	if len(window.Docs) == 0 {
		return 0
	}
	if n > len(window.Docs) {
		n = len(window.Docs)
	}
	sum := 0.0
	for _, doc := range window.Docs[:n] {
		sum += doc.Relevancy()
	}
	return sum / float64(n)
}

// answerQualityScore blends length proximity, refusal-phrase absence
// (dominant), structured formatting and concrete specifics. The sub-scores are
// recorded in the breakdown with zero weight: inspectable but not directly
// summed, since only the blended value carries weight.
func answerQualityScore(answer string, breakdown map[string]models.ConfidenceFactor) (float64, bool) {
	length := lengthBandScore(answer)

	refused := ContainsRefusal(answer)
	refusalFree := 1.0
	if refused {
		refusalFree = 0.0
	}

	structured := 0.0
	if numberedListPattern.MatchString(answer) {
		structured = 1.0
	}

	specifics := 0.0
	if digitPattern.MatchString(answer) {
		specifics += 0.5
	}
	if containsAny(answer, instructionalVocabulary) {
		specifics += 0.5
	}

	addFactor(breakdown, "quality.length_band", length, 0)
	addFactor(breakdown, "quality.refusal_free", refusalFree, 0)
	addFactor(breakdown, "quality.structured", structured, 0)
	addFactor(breakdown, "quality.specifics", specifics, 0)

	blended := 0.2*length + 0.5*refusalFree + 0.15*structured + 0.15*specifics
	return blended, refused
}

// lengthBandScore rewards responses near the ideal length band and decays
// outside it.
func lengthBandScore(answer string) float64 {
	n := len([]rune(strings.TrimSpace(answer)))
	switch {
	case n == 0:
		return 0
	case n < 40:
		return float64(n) / 40
	case n <= 1200:
		return 1
	case n <= 2400:
		return 1 - float64(n-1200)/1200*0.5
	default:
		return 0.5
	}
}

// contextAlignmentScore measures the fraction of the answer's terms that also
// appear in the retrieved context, with small additive bonuses for
// instructional vocabulary, numeric specifics and recognized official links.
// Floored so a topically-aligned answer never scores as "no alignment".
func contextAlignmentScore(answer string, window ContextWindow) float64 {
	answerTerms := ExtractCoreTerms(answer)
	if len(answerTerms) == 0 {
		return alignmentFloor
	}

	contextLower := strings.ToLower(window.Text())
	matched := 0
	for term := range answerTerms {
		if strings.Contains(contextLower, term) {
			matched++
		}
	}
	score := float64(matched) / float64(len(answerTerms))

	if containsAny(answer, instructionalVocabulary) {
		score += 0.05
	}
	if digitPattern.MatchString(answer) {
		score += 0.05
	}
	if containsOfficialLink(answer) {
		score += 0.05
	}

	if score < alignmentFloor {
		score = alignmentFloor
	}
	if score > 1 {
		score = 1
	}
	return score
}

// ContainsRefusal reports whether the answer reads as a refusal
func ContainsRefusal(answer string) bool {
	return containsAny(answer, refusalPhrases)
}

func hasInstructionMarkers(answer string) bool {
	return numberedListPattern.MatchString(answer) || containsAny(answer, sequencingWords)
}

func containsAny(text string, phrases []string) bool {
	folded := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

func roundScore(v float64) float64 {
	shift := math.Pow10(scorePrecision)
	return math.Round(v*shift) / shift
}
