package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"supportrag-backend/models"
)

func TestDecideBelowThresholdRoutesByPriority(t *testing.T) {
	engine := NewEscalationEngine(0.6)

	cases := []struct {
		priority models.PriorityLevel
		tier     models.EscalationTier
	}{
		{models.PriorityLow, models.TierL1},
		{models.PriorityMedium, models.TierL2},
		{models.PriorityHigh, models.TierL3},
	}

	for _, tc := range cases {
		decision := engine.Decide(tc.priority, 0.3)
		require.Equal(t, tc.tier, decision.Tier)
		require.NotEmpty(t, decision.Reason)
	}
}

func TestDecideAboveThreshold(t *testing.T) {
	engine := NewEscalationEngine(0.6)

	require.Equal(t, models.TierNone, engine.Decide(models.PriorityLow, 0.9).Tier)
	require.Equal(t, models.TierNone, engine.Decide(models.PriorityMedium, 0.9).Tier)
}

func TestDecideHighPriorityAlwaysEscalates(t *testing.T) {
	engine := NewEscalationEngine(0.6)

	// Even a perfectly confident answer keeps the security follow-up
	for _, confidence := range []float64{0.0, 0.59, 0.6, 0.85, 1.0} {
		decision := engine.Decide(models.PriorityHigh, confidence)
		require.Equal(t, models.TierL3, decision.Tier, "confidence %.2f", confidence)
	}
}

func TestDecideThresholdBoundary(t *testing.T) {
	engine := NewEscalationEngine(0.6)

	// At exactly the threshold the answer stands
	require.Equal(t, models.TierNone, engine.Decide(models.PriorityLow, 0.6).Tier)
	require.Equal(t, models.TierL1, engine.Decide(models.PriorityLow, 0.5999).Tier)
}

func TestNewEscalationEngineDefaultsThreshold(t *testing.T) {
	require.Equal(t, DefaultConfidenceThreshold, NewEscalationEngine(0).Threshold())
	require.Equal(t, DefaultConfidenceThreshold, NewEscalationEngine(-1).Threshold())
	require.Equal(t, 0.75, NewEscalationEngine(0.75).Threshold())
}

func TestTierOrderingIsMonotonic(t *testing.T) {
	ordered := []models.EscalationTier{models.TierNone, models.TierL1, models.TierL2, models.TierL3}
	for i := 1; i < len(ordered); i++ {
		require.Greater(t, ordered[i].Rank(), ordered[i-1].Rank())
	}

	require.Equal(t, models.TierL3, models.MaxTier(models.TierL1, models.TierL3))
	require.Equal(t, models.TierL2, models.MaxTier(models.TierL2, models.TierNone))
	require.Equal(t, models.TierL1, models.MaxTier(models.TierL1, models.TierL1))
}

func TestScriptedMessagesAreDistinct(t *testing.T) {
	messages := []string{
		FallbackMessage(models.PriorityLow),
		FallbackMessage(models.PriorityMedium),
		FallbackMessage(models.PriorityHigh),
		NoDocumentsMessage(),
		NoRelevantDocumentsMessage(),
	}

	seen := make(map[string]struct{})
	for _, msg := range messages {
		require.NotEmpty(t, msg)
		_, dup := seen[msg]
		require.False(t, dup, "scripted message reused: %s", msg)
		seen[msg] = struct{}{}
	}
}

func TestFallbackMessageHighMentionsCardBlocking(t *testing.T) {
	msg := FallbackMessage(models.PriorityHigh)

	require.Contains(t, msg, "заблокируйте карту")
	require.Contains(t, msg, "900")
}
