package models

// PriorityLevel represents question severity
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "LOW"
	PriorityMedium PriorityLevel = "MEDIUM"
	PriorityHigh   PriorityLevel = "HIGH"
)

// ParsePriority maps a raw classifier token to a PriorityLevel.
// Unknown tokens report false so callers can fall back.
func ParsePriority(s string) (PriorityLevel, bool) {
	switch PriorityLevel(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return PriorityLevel(s), true
	}
	return "", false
}
