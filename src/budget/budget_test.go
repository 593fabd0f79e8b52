package budget

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/src/ai/core"
)

func TestEstimateTokens(t *testing.T) {
	messages := []core.Message{
		{Role: "user", Content: "twelve chars"}, // 4 + 12 bytes
	}
	assert.Equal(t, 4, EstimateTokens(messages))
	assert.Equal(t, 0, EstimateTokens(nil))
}

func TestEstimateCost(t *testing.T) {
	pricing := ModelPricing{PromptPerMillion: 2.50, CompletionPerMillion: 10.0}
	cost := EstimateCost(pricing, 1_000_000, 500_000)
	assert.InDelta(t, 2.50+5.0, cost, 1e-9)
	assert.Zero(t, EstimateCost(pricing, 0, 0))
}

func TestIsExhaustedMatchesWrappedSentinels(t *testing.T) {
	for _, err := range []error{ErrBudgetExceeded, ErrInsufficientCredit, ErrPricingMissing} {
		wrapped := fmt.Errorf("openai/verify for user u1: %w", err)
		assert.True(t, IsExhausted(wrapped), "%v", err)
	}
	assert.False(t, IsExhausted(nil))
	assert.False(t, IsExhausted(fmt.Errorf("status 500")))
}

func TestDisabledManagerAdmitsEverything(t *testing.T) {
	m := NewManager(nil, nil, Limits{})
	ctx := context.Background()

	require.NoError(t, m.AssertWithinBudget(ctx, "openai", "verify", "u1"))
	require.NoError(t, m.PrecheckCredit(ctx, "u1", "gpt-4o-mini", nil, 2000))

	balance, err := m.DebitAfterUsage(ctx, "u1", "gpt-4o-mini", "verify", core.Usage{TotalTokens: 100})
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestNewManagerDefaultsLimit(t *testing.T) {
	m := NewManager(nil, nil, Limits{})
	assert.Equal(t, DefaultLimits.DailyCallsPerRoute, m.limits.DailyCallsPerRoute)
}
