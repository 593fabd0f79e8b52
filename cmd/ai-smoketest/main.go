// Command ai-smoketest runs one verification end to end and prints the
// report. With no API keys configured everything rides the local fallback
// tier, which makes this a deploy-time sanity check that needs no budget.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/trustlens/trustlens/src/ai/core"
	_ "github.com/trustlens/trustlens/src/ai/providers"
	"github.com/trustlens/trustlens/src/budget"
	"github.com/trustlens/trustlens/src/config"
	"github.com/trustlens/trustlens/src/factcheck/analyzer"
	"github.com/trustlens/trustlens/src/factcheck/cascade"
	"github.com/trustlens/trustlens/src/factcheck/evidence"
	"github.com/trustlens/trustlens/src/factcheck/report"
	"github.com/trustlens/trustlens/src/factcheck/search"
	"github.com/trustlens/trustlens/src/factcheck/sources"
	"github.com/trustlens/trustlens/src/factcheck/suggest"
	"github.com/trustlens/trustlens/src/factcheck/verifier"
	"github.com/trustlens/trustlens/src/factcheck/webpage"
	"github.com/trustlens/trustlens/src/ratelimit"
)

var (
	textFlag     = flag.String("text", "The Eiffel Tower was completed in 1889. The earth is flat.", "Text to verify")
	questionFlag = flag.String("question", "", "Originating question, if any")
	langFlag     = flag.String("lang", "en", "Language hint")
	evidenceFlag = flag.Bool("evidence", false, "Run the evidence-based verification pass")
	timeoutFlag  = flag.Duration("timeout", 90*time.Second, "Overall timeout")
)

func main() {
	log.SetFlags(0)
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.Load(nil)
	manager := budget.NewManager(nil, nil, budget.Limits{})
	queue := ratelimit.NewQueue(cfg.QueueWorkers, cfg.QueuePending)

	runner := func(route string) *cascade.Runner {
		return &cascade.Runner{Budget: manager, Queue: queue, Route: route}
	}

	primary := buildClient(cfg, cfg.Primary)
	secondary := buildClient(cfg, cfg.Secondary)

	searcher := search.NewClient(cfg.BraveAPIKey, cfg.BraveEndpoint)
	variants := search.NewVariantGenerator(suggest.New(runner("queries"), primary))
	gatherer := evidence.NewGatherer(searcher, variants, webpage.NewFetcher(), evidence.NewWikipediaProvider())

	reconciler := report.NewReconciler(
		analyzer.New(runner("analyze"), primary, secondary),
		gatherer,
		verifier.New(runner("verify"), primary, secondary),
		sources.New(runner("sources"), primary),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	rep, err := reconciler.Generate(ctx, report.Request{
		Text:          *textFlag,
		Question:      *questionFlag,
		Lang:          *langFlag,
		UserID:        "smoketest",
		EvidenceCheck: *evidenceFlag,
	})
	if err != nil {
		log.Fatalf("verification failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		log.Fatalf("encode: %v", err)
	}
}

func buildClient(cfg config.Config, tier config.AI) core.Client {
	if tier.Provider == "" {
		return nil
	}
	client, err := core.NewClient(core.FactoryConfig{
		Provider:  tier.Provider,
		Model:     tier.Model,
		OpenAIKey: cfg.OpenAIKey,
		ClaudeKey: cfg.ClaudeKey,
	})
	if err != nil {
		log.Printf("smoketest: %s tier disabled: %v", tier.Provider, err)
		return nil
	}
	return client
}
