package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"bridgescan/internal/api"
	"bridgescan/internal/chain"
	"bridgescan/internal/config"
	"bridgescan/internal/decoder"
	"bridgescan/internal/indexer"
	"bridgescan/internal/prices"
	"bridgescan/internal/query"
	"bridgescan/internal/scheduler"
	"bridgescan/internal/store"
)

// BuildCommit is set at build time via -ldflags.
var BuildCommit = "dev"

func main() {
	// 1. Config
	cfg := config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	log.Printf("bridgescan starting (commit %s)", BuildCommit)
	log.Printf("API port: %d", cfg.APIPort)

	// 2. Store. Postgres when DATABASE_URL is set, in-memory otherwise
	// (useful for local runs; aggregates are lost on restart).
	var aggKV, pricesKV, queueKV store.KV
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("connect store: %v", err)
		}
		defer pg.Close()
		aggKV = pg.WithNamespace(store.Aggregates)
		pricesKV = pg.WithNamespace(store.Prices)
		queueKV = pg.WithNamespace(store.Queue)
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		aggKV = store.NewMemory()
		pricesKV = store.NewMemory()
		queueKV = store.NewMemory()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Chain clients. Chains without an RPC endpoint are not indexed
	// but their stored aggregates remain queryable.
	clients := map[string]*chain.Client{}
	for i := range config.Chains {
		c := &config.Chains[i]
		url := cfg.RPCs[c.Name]
		if url == "" {
			log.Printf("[%s] no RPC configured, skipping", c.Name)
			continue
		}
		client, err := chain.Dial(ctx, c, url)
		if err != nil {
			log.Fatalf("[%s] dial %s: %v", c.Name, url, err)
		}
		defer client.Close()
		clients[c.Name] = client
	}

	// 4. Decoders. Token resolution falls back to the on-chain bridge
	// config registry, which lives on Ethereum.
	var lookup decoder.ConfigLookup
	if eth := clients["ethereum"]; eth != nil {
		lookup = &bridgeConfigLookup{client: eth}
	}
	tokens := decoder.NewTokenRegistry(lookup)
	pools := decoder.NewPoolDecoder()

	indexers := map[string]*indexer.Indexer{}
	for name, client := range clients {
		indexers[name] = indexer.New(config.ChainByName(name), client, aggKV, tokens, pools)
	}

	// 5. Prices and query views.
	source := prices.NewCoinGecko(cfg.CoinGeckoURL, cfg.CoinGeckoRPS)
	oracle := prices.NewOracle(pricesKV, queueKV, source)

	callers := map[string]query.ContractCaller{}
	for name, client := range clients {
		callers[name] = client
	}
	svc := query.New(aggKV, oracle, callers)

	// 6. Scheduled jobs.
	jobs := []scheduler.Job{
		{
			Name:     "update_getlogs",
			Schedule: scheduler.Every(cfg.GetlogsInterval),
			Run: func(ctx context.Context) error {
				return indexer.RunAll(ctx, indexerRuns(indexers, (*indexer.Indexer).IndexBridge))
			},
		},
		{
			Name:     "update_getlogs_pool",
			Schedule: scheduler.Every(cfg.GetlogsInterval),
			Run: func(ctx context.Context) error {
				return indexer.RunAll(ctx, indexerRuns(indexers, (*indexer.Indexer).IndexPools))
			},
		},
		{
			Name:     "update_prices",
			Schedule: scheduler.DailyAt{Hour: 0, Minute: 10},
			Run:      oracle.UpdateDaily,
		},
		{
			Name:     "update_prices_missing",
			Schedule: scheduler.Every(cfg.PricesInterval),
			Run:      oracle.RefreshMissing,
		},
		{
			Name:     "update_caches",
			Schedule: scheduler.Every(cfg.CachesInterval),
			Run:      svc.WarmCaches,
		},
	}
	sched := scheduler.New(queueKV, jobs)
	go sched.Start(ctx)

	// 7. HTTP server.
	server := api.NewServer(svc, cfg)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server: %v", err)
		}
	}()
	log.Printf("[api] listening on :%d", cfg.APIPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown: %v", err)
	}
}

// indexerRuns binds one indexer method per chain for the parallel fan-out.
func indexerRuns(indexers map[string]*indexer.Indexer, run func(*indexer.Indexer, context.Context) error) map[string]func(context.Context) error {
	runs := make(map[string]func(context.Context) error, len(indexers))
	for name, ix := range indexers {
		runs[name] = func(ctx context.Context) error { return run(ix, ctx) }
	}
	return runs
}

// bridgeConfigLookup resolves unknown tokens through the on-chain bridge
// config registry.
type bridgeConfigLookup struct {
	client *chain.Client
}

func (l *bridgeConfigLookup) LookupDecimals(ctx context.Context, token string, chainID uint64) (int, bool, error) {
	t, err := l.client.GetTokenByAddress(ctx, common.HexToAddress(config.BridgeConfigAddress), token, chainID)
	if err != nil {
		return 0, false, err
	}
	if t.ChainId == nil || t.ChainId.Sign() == 0 {
		// Zero-value struct: the registry does not know this token.
		return 0, false, nil
	}
	return int(t.TokenDecimals), true, nil
}
