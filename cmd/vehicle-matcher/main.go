// Command vehicle-matcher resolves free-text vehicle descriptions against the
// vehicle catalog in Postgres.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vehicle-matcher/internal/aliases"
	"vehicle-matcher/internal/common/config"
	"vehicle-matcher/internal/common/database"
	"vehicle-matcher/internal/common/logger"
	"vehicle-matcher/internal/matching/matcher"
	"vehicle-matcher/internal/models"
	"vehicle-matcher/internal/store"
)

const (
	modeBest = "best"
	modeAll  = "all"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	configPath := flag.String("config", "", "Path to config file (default: configs/config.yaml lookup)")
	inputPath := flag.String("input", "-", "File of descriptions, one per line (- for stdin)")
	mode := flag.String("mode", modeBest, "Output mode: best or all")
	metricsAddr := flag.String("metrics-addr", "", "Serve /metrics on this address (overrides config)")
	dumpCatalog := flag.Bool("dump-catalog", false, "Print the loaded attribute catalog as JSON and exit")
	refreshCache := flag.Bool("refresh-cache", false, "Drop cached distinct values before loading the catalog")
	flag.Parse()

	if *mode != modeBest && *mode != modeAll {
		fmt.Fprintf(os.Stderr, "invalid -mode %q, expected %s or %s\n", *mode, modeBest, modeAll)
		os.Exit(2)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	zapLog = zapLog.With(zap.String("runId", uuid.NewString()))
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 5, time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully",
		zap.String("host", cfg.Database.Postgres.Host),
		zap.String("database", cfg.Database.Postgres.Database),
	)

	var vehicles store.Store = store.NewPostgresStore(pg.GetDB(), config.GetDuration(cfg.Matcher.QueryTimeout), log)

	// --- Redis (optional) ---
	if cfg.Database.Redis.Enabled {
		rc := database.NewRedis(cfg.Database.Redis)
		if err := rc.Ping(ctx); err != nil {
			zapLog.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
			rc.Close()
		} else {
			defer rc.Close()
			zapLog.Info("Redis connected successfully", zap.String("address", cfg.Database.Redis.Address))
			vehicles = newCache(ctx, vehicles, rc, cfg.Database.Redis.TTL(), *refreshCache, zapLog)
		}
	}

	// --- Metrics ---
	addr := *metricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.Address
	}
	if addr != "" {
		go serveMetrics(addr, zapLog)
	}

	var aliasSource aliases.Source
	if cfg.Matcher.AliasFile != "" {
		aliasSource = aliases.FileSource{Path: cfg.Matcher.AliasFile}
	}

	m := matcher.New(ctx, vehicles, aliasSource, log)

	if *dumpCatalog {
		if err := writeCatalog(os.Stdout, m); err != nil {
			zapLog.Fatal("failed to write catalog", zap.Error(err))
		}
		return
	}

	descriptions, err := loadDescriptions(*inputPath)
	if err != nil {
		zapLog.Fatal("failed to load descriptions", zap.Error(err))
	}

	for _, description := range descriptions {
		if ctx.Err() != nil {
			zapLog.Info("interrupted, stopping")
			break
		}
		if err := run(ctx, os.Stdout, m, *mode, description); err != nil {
			zapLog.Error("match failed", zap.String("description", description), zap.Error(err))
		}
	}
}

func run(ctx context.Context, w io.Writer, m *matcher.Matcher, mode, description string) error {
	fmt.Fprintf(w, "Input: %s\n", description)

	if mode == modeAll {
		matches, err := m.FindAllMatches(ctx, description)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintln(w, "No match found")
		}
		for i, v := range matches {
			fmt.Fprintf(w, "%d. Vehicle ID: %d (%s, listings: %d)\n", i+1, v.ID, v.Description(), v.ListingCount)
		}
		fmt.Fprintln(w)
		return nil
	}

	best, confidence, err := m.FindBestMatch(ctx, description)
	if err != nil {
		return err
	}
	if best == nil {
		fmt.Fprintln(w, "No match found")
	} else {
		fmt.Fprintf(w, "Vehicle ID: %d\n", best.ID)
		fmt.Fprintf(w, "Confidence: %d\n", confidence)
	}
	fmt.Fprintln(w)
	return nil
}

// newCache wraps inner with the redis distinct-value cache, dropping any
// cached lists first when refresh is set. A failed drop is logged only.
func newCache(ctx context.Context, inner store.Store, rc *database.RedisClient, ttl time.Duration, refresh bool, log *zap.Logger) *store.CachedStore {
	cached := store.NewCachedStore(inner, rc.GetClient(), ttl, logger.NewZapAdapter(log))
	if refresh {
		if err := cached.Invalidate(ctx); err != nil {
			log.Warn("failed to drop cached catalog values", zap.Error(err))
		} else {
			log.Info("cached catalog values dropped")
		}
	}
	return cached
}

func writeCatalog(w io.Writer, m *matcher.Matcher) error {
	dump := make(map[models.AttributeType][]models.AttributeValue, len(models.AttributeTypes))
	for _, at := range models.AttributeTypes {
		dump[at] = m.Catalog().Values(at)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

func serveMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	log.Info("Metrics server listening", zap.String("address", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Metrics server failed", zap.Error(err))
	}
}
