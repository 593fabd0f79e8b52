package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/trustlens/trustlens/src/ai/core"
	_ "github.com/trustlens/trustlens/src/ai/providers"
	"github.com/trustlens/trustlens/src/api"
	"github.com/trustlens/trustlens/src/budget"
	"github.com/trustlens/trustlens/src/config"
	"github.com/trustlens/trustlens/src/data"
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

func main() {
	_ = godotenv.Load()

	// DB and redis are optional: without them the service runs unmetered
	// with env-only configuration.
	var db *gorm.DB
	if dsn, err := data.GetMySQLDSN(); err == nil {
		var derr error
		db, derr = data.ConnectMySQL(dsn)
		if derr != nil {
			log.Fatalf("db: %v", derr)
		}
		if err := budget.Migrate(db); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	} else {
		log.Printf("trustlens: no MYSQL_DSN, running without settings table and credit ledger")
	}

	cfg := config.Load(db)

	var rdb *redis.Client
	if db != nil || os.Getenv("REDIS_URL") != "" {
		rdb = data.MustRedis(cfg.RedisURL)
	}

	manager := budget.NewManager(db, rdb, budget.Limits{DailyCallsPerRoute: cfg.DailyCallsPerRoute})
	queue := ratelimit.NewQueue(cfg.QueueWorkers, cfg.QueuePending)

	primary := buildClient(cfg, cfg.Primary)
	secondary := buildClient(cfg, cfg.Secondary)

	runner := func(route string) *cascade.Runner {
		return &cascade.Runner{Budget: manager, Queue: queue, Route: route}
	}

	searcher := search.NewClient(cfg.BraveAPIKey, cfg.BraveEndpoint)
	variants := search.NewVariantGenerator(suggest.New(runner("queries"), primary))
	fetcher := webpage.NewFetcher()

	providers := []evidence.Provider{evidence.NewWikipediaProvider()}
	if cfg.NewsAPIKey != "" {
		providers = append(providers, evidence.NewNewsProvider(cfg.NewsAPIKey, ""))
	}
	providers = append(providers, evidence.NewPapersProvider(""))

	gatherer := evidence.NewGatherer(searcher, variants, fetcher, providers...)

	reconciler := report.NewReconciler(
		analyzer.New(runner("analyze"), primary, secondary),
		gatherer,
		verifier.New(runner("verify"), primary, secondary),
		sources.New(runner("sources"), primary),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: api.New(cfg, reconciler),
	}

	go func() {
		log.Printf("trustlens: listening on %s (search=%t, primary=%t, secondary=%t)",
			srv.Addr, searcher.Enabled(), primary != nil, secondary != nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
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
		log.Printf("trustlens: %s tier disabled: %v", tier.Provider, err)
		return nil
	}
	return client
}
