// Package budget gates paid model calls behind a daily call budget and a
// per-user prepaid credit ledger. Both checks are synchronous: a rejected
// call returns a typed error before any provider request is made.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/trustlens/trustlens/src/ai/core"
)

var (
	// ErrBudgetExceeded means the daily call budget for a route is spent.
	ErrBudgetExceeded = errors.New("budget exceeded")
	// ErrInsufficientCredit means the user's balance cannot cover the call.
	ErrInsufficientCredit = errors.New("insufficient credit")
	// ErrPricingMissing means no pricing row exists for the requested model.
	ErrPricingMissing = errors.New("model pricing missing")
)

// Limits caps outbound paid calls per provider/route per UTC day.
type Limits struct {
	DailyCallsPerRoute int
}

// DefaultLimits allows a generous but bounded daily call volume.
var DefaultLimits = Limits{DailyCallsPerRoute: 2000}

// Manager implements the budget and credit collaborators. A nil db or rdb
// disables the corresponding check, so local-only deployments run unmetered.
type Manager struct {
	db     *gorm.DB
	rdb    *redis.Client
	limits Limits
}

func NewManager(db *gorm.DB, rdb *redis.Client, limits Limits) *Manager {
	if limits.DailyCallsPerRoute <= 0 {
		limits.DailyCallsPerRoute = DefaultLimits.DailyCallsPerRoute
	}
	return &Manager{db: db, rdb: rdb, limits: limits}
}

// AssertWithinBudget admits or rejects one paid call on the given route.
// Counters live in redis keyed by provider, route and UTC day.
func (m *Manager) AssertWithinBudget(ctx context.Context, provider, route, userID string) error {
	if m == nil || m.rdb == nil {
		return nil
	}
	key := callsKey(provider, route, time.Now().UTC())
	n, err := m.rdb.Incr(ctx, key).Result()
	if err != nil {
		// Redis being down must not block the pipeline.
		log.Printf("budget: counter unavailable for %s: %v", key, err)
		return nil
	}
	if n == 1 {
		m.rdb.Expire(ctx, key, 25*time.Hour)
	}
	if n > int64(m.limits.DailyCallsPerRoute) {
		return fmt.Errorf("%s/%s for user %s: %w", provider, route, userID, ErrBudgetExceeded)
	}
	return nil
}

// PrecheckCredit verifies the user's balance covers a worst-case estimate of
// the call: prompt tokens from message length plus the full completion cap.
func (m *Manager) PrecheckCredit(ctx context.Context, userID, model string, messages []core.Message, maxTokens int) error {
	if m == nil || m.db == nil {
		return nil
	}
	pricing, err := m.pricingFor(ctx, model)
	if err != nil {
		return err
	}
	est := EstimateCost(pricing, EstimateTokens(messages), maxTokens)

	balance, err := m.balanceFor(ctx, userID)
	if err != nil {
		return fmt.Errorf("credit lookup for %s: %w", userID, err)
	}
	if balance < est {
		return fmt.Errorf("user %s balance %.4f below estimate %.4f: %w", userID, balance, est, ErrInsufficientCredit)
	}
	return nil
}

// DebitAfterUsage writes a ledger row for the actual token usage, decrements
// the balance and returns what remains. route tags the ledger row with the
// pipeline stage that spent the tokens.
func (m *Manager) DebitAfterUsage(ctx context.Context, userID, model, route string, usage core.Usage) (float64, error) {
	if m == nil || m.db == nil {
		return 0, nil
	}
	pricing, err := m.pricingFor(ctx, model)
	if err != nil {
		return 0, err
	}
	cost := EstimateCost(pricing, usage.PromptTokens, usage.CompletionTokens)

	var balance float64
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var credit UserCredit
		if err := tx.Where("user_id = ?", userID).First(&credit).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			credit = UserCredit{UserID: userID}
		}
		credit.Balance -= cost
		credit.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&credit).Error; err != nil {
			return err
		}
		entry := UsageEntry{
			UserID:           userID,
			Model:            model,
			Route:            route,
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			Cost:             cost,
			CreatedAt:        time.Now().UTC(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		balance = credit.Balance
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("debit for %s: %w", userID, err)
	}
	if m.rdb != nil {
		m.rdb.Set(ctx, balanceKey(userID), balance, 10*time.Minute)
	}
	return balance, nil
}

func (m *Manager) pricingFor(ctx context.Context, model string) (ModelPricing, error) {
	var pricing ModelPricing
	err := m.db.WithContext(ctx).Where("model = ?", model).First(&pricing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ModelPricing{}, fmt.Errorf("model %s: %w", model, ErrPricingMissing)
	}
	if err != nil {
		return ModelPricing{}, fmt.Errorf("pricing lookup for %s: %w", model, err)
	}
	return pricing, nil
}

func (m *Manager) balanceFor(ctx context.Context, userID string) (float64, error) {
	if m.rdb != nil {
		if cached, err := m.rdb.Get(ctx, balanceKey(userID)).Float64(); err == nil {
			return cached, nil
		}
	}
	var credit UserCredit
	err := m.db.WithContext(ctx).Where("user_id = ?", userID).First(&credit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if m.rdb != nil {
		m.rdb.Set(ctx, balanceKey(userID), credit.Balance, 10*time.Minute)
	}
	return credit.Balance, nil
}

// EstimateTokens approximates prompt token count as characters over four.
func EstimateTokens(messages []core.Message) int {
	chars := 0
	for _, m := range messages {
		chars += len(m.Role) + len(m.Content)
	}
	return chars / 4
}

// EstimateCost converts token counts to USD using per-million rates.
func EstimateCost(p ModelPricing, promptTokens, completionTokens int) float64 {
	return float64(promptTokens)*p.PromptPerMillion/1e6 +
		float64(completionTokens)*p.CompletionPerMillion/1e6
}

// IsExhausted reports whether err is one of the typed budget/credit failures
// that must propagate to the caller instead of degrading through fallbacks.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrBudgetExceeded) ||
		errors.Is(err, ErrInsufficientCredit) ||
		errors.Is(err, ErrPricingMissing)
}

func callsKey(provider, route string, day time.Time) string {
	return fmt.Sprintf("budget:calls:%s:%s:%s", provider, route, day.Format("2006-01-02"))
}

func balanceKey(userID string) string {
	return "budget:balance:" + userID
}
