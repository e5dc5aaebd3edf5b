package models

// SourceCitation is one knowledge-base citation attached to an answer
type SourceCitation struct {
	Snippet   string  `json:"snippet"`
	Source    string  `json:"source"`
	Label     string  `json:"label"` // human-readable provenance derived from doc type
	Relevance float64 `json:"relevance"`
	URL       string  `json:"url,omitempty"`
}

// Answer is the final output of the triage pipeline.
// Constructed exactly once per request; never mutated after return.
type Answer struct {
	Answer     string               `json:"answer"`
	Sources    []SourceCitation     `json:"sources"`
	Priority   PriorityLevel        `json:"priority"`
	Escalation EscalationTier       `json:"escalation_tier"`
	Reason     string               `json:"reason"`
	Confidence ConfidenceAssessment `json:"confidence"`
}
