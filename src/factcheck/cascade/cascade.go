// Package cascade runs one prompt against an ordered list of model tiers,
// passing every paid call through the budget, credit and queue gates.
// Transient provider failures fall through to the next tier; only
// budget/credit exhaustion propagates to the caller.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/trustlens/trustlens/src/ai/core"
	"github.com/trustlens/trustlens/src/budget"
	"github.com/trustlens/trustlens/src/logging"
	"github.com/trustlens/trustlens/src/ratelimit"
)

// ErrAllTiersFailed means every configured model tier was skipped or failed;
// the caller should use its local fallback.
var ErrAllTiersFailed = errors.New("all model tiers failed")

// Tier is one model in the fallback chain.
type Tier struct {
	Label  string
	Client core.Client
}

// Runner owns the gates shared by every cascade in the pipeline.
type Runner struct {
	Budget *budget.Manager
	Queue  *ratelimit.Queue
	Route  string
}

// Complete tries each tier in order and returns the first successful
// completion plus the label of the tier that produced it.
func (r *Runner) Complete(ctx context.Context, userID string, messages []core.Message, opts core.Options, tiers []Tier) (string, string, error) {
	for _, tier := range tiers {
		if tier.Client == nil {
			continue
		}
		if err := r.admit(ctx, tier, userID, messages, opts); err != nil {
			if budget.IsExhausted(err) {
				return "", "", err
			}
			log.Printf("cascade: %s tier %s skipped: %v", r.Route, tier.Label, err)
			continue
		}

		var out string
		var usage core.Usage
		call := func(ctx context.Context) error {
			var err error
			out, usage, err = tier.Client.Complete(ctx, messages, opts)
			return err
		}
		var err error
		if r.Queue != nil {
			err = r.Queue.Execute(ctx, "", call)
		} else {
			err = call(ctx)
		}
		if err != nil {
			switch {
			case logging.IsRateLimit(err):
				log.Printf("cascade: %s tier %s rate limited: %v", r.Route, tier.Label, err)
			case logging.IsTransient(err):
				log.Printf("cascade: %s tier %s transient failure: %v", r.Route, tier.Label, err)
			default:
				log.Printf("cascade: %s tier %s failed: %v", r.Route, tier.Label, err)
			}
			continue
		}

		r.debit(ctx, userID, tier, usage)
		return out, tier.Label, nil
	}
	return "", "", fmt.Errorf("%s: %w", r.Route, ErrAllTiersFailed)
}

func (r *Runner) admit(ctx context.Context, tier Tier, userID string, messages []core.Message, opts core.Options) error {
	if r.Budget == nil {
		return nil
	}
	if err := r.Budget.AssertWithinBudget(ctx, tier.Label, r.Route, userID); err != nil {
		return err
	}
	return r.Budget.PrecheckCredit(ctx, userID, tier.Client.Model(), messages, opts.MaxCompletionTokens)
}

func (r *Runner) debit(ctx context.Context, userID string, tier Tier, usage core.Usage) {
	if r.Budget == nil || usage.TotalTokens == 0 {
		return
	}
	balance, err := r.Budget.DebitAfterUsage(ctx, userID, tier.Client.Model(), r.Route, usage)
	if err != nil {
		log.Printf("cascade: debit after %s/%s failed: %v", r.Route, tier.Label, err)
		return
	}
	log.Printf("cascade: %s via %s used %d tokens, balance %.4f", r.Route, tier.Label, usage.TotalTokens, balance)
}
