package models

// ConfidenceFactor is one named component of the confidence breakdown.
// Contribution = Value * Weight; the post-weighting contributions sum to the
// final score within rounding tolerance.
type ConfidenceFactor struct {
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ConfidenceAssessment is the calibrated confidence for a drafted answer.
// Created once per request and immutable after creation.
type ConfidenceAssessment struct {
	Score          float64                     `json:"score"`
	Interpretation string                      `json:"interpretation"`
	Breakdown      map[string]ConfidenceFactor `json:"breakdown"`
}
