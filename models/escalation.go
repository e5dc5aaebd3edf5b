package models

// EscalationTier is the human support tier a question is routed to.
// TierNone means fully resolved with no human follow-up.
type EscalationTier string

const (
	TierNone EscalationTier = "none"
	TierL1   EscalationTier = "L1" // general support
	TierL2   EscalationTier = "L2" // technical support
	TierL3   EscalationTier = "L3" // security / financial
)

// Rank orders tiers for monotonic escalation: a tier can only ever be raised.
func (t EscalationTier) Rank() int {
	switch t {
	case TierL1:
		return 1
	case TierL2:
		return 2
	case TierL3:
		return 3
	default:
		return 0
	}
}

// MaxTier returns the higher of two tiers.
func MaxTier(a, b EscalationTier) EscalationTier {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// EscalationDecision is the terminal routing decision for a request
type EscalationDecision struct {
	Tier   EscalationTier `json:"tier"`
	Reason string         `json:"reason"`
}
