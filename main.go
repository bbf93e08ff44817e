package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"luxo-leads/config"
	"luxo-leads/fetch"
	"luxo-leads/logger"
	"luxo-leads/models"
	"luxo-leads/services/cache"
	"luxo-leads/services/discover"
	"luxo-leads/services/notify"
	"luxo-leads/services/pitch"
	"luxo-leads/services/worker"
	"luxo-leads/storage"
)

const usage = "usage: luxo-leads [discover|enrich|watch|pitch|<listing URL>]"

func main() {
	logger.Init()
	log := logger.For("main")
	cfg := config.Load()

	mode := "watch"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	store, err := storage.NewPostgres(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to PostgreSQL")
	}
	defer store.Close()

	var blockCache cache.Service
	if cfg.MemcacheAddr != "" {
		blockCache = cache.NewMemcache(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("memcached block cache")
	} else {
		blockCache = cache.NewMemory()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var base fetch.Fetcher
	if cfg.FetchMode == "http" {
		base = fetch.NewHTTP(cfg.FetchTimeout)
		log.Info().Msg("plain HTTP fetcher")
	} else {
		browser := fetch.NewBrowser(cfg.ChromeBin, cfg.FetchTimeout, logger.For("browser"))
		defer browser.Close()
		base = browser
	}
	fetcher := fetch.NewGuarded(base, blockCache, cfg.BlockTTL)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.RedisAddr != "" {
		r := notify.NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMax)
		if err := r.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to Redis")
		}
		defer r.Close()
		notifier = r
		log.Info().Str("stream", cfg.RedisStream).Msg("publishing ready leads")
	}

	w := worker.New(store, fetcher, notifier, cfg, logger.For("worker"))

	switch {
	case strings.HasPrefix(mode, "http"):
		if err := enrichSingle(ctx, store, w, mode); err != nil {
			log.Fatal().Err(err).Msg("targeted scrape failed")
		}

	case mode == "discover":
		runner := discover.NewRunner(store, fetcher, cfg, logger.For("discover"))
		if err := runner.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("discovery failed")
		}
		log.Info().Msg("now enriching discovered leads")
		if err := w.ProcessPending(ctx); err != nil {
			log.Fatal().Err(err).Msg("enrichment failed")
		}

	case mode == "enrich":
		if err := w.ProcessPending(ctx); err != nil {
			log.Fatal().Err(err).Msg("enrichment failed")
		}

	case mode == "watch":
		if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("watcher stopped")
		}

	case mode == "pitch":
		gen := pitch.NewGenerator(nil, cfg.MaxRetries, 2*time.Second, logger.For("pitch"))
		if err := w.RunPitches(ctx, gen); err != nil {
			log.Fatal().Err(err).Msg("pitch pass failed")
		}

	default:
		log.Fatal().Str("mode", mode).Msg(usage)
	}
}

// enrichSingle seeds one URL as a pending lead (placeholder fields until
// the scrape fills them in) and runs the enrichment pass immediately.
func enrichSingle(ctx context.Context, store storage.LeadStore, w *worker.Worker, rawURL string) error {
	url := strings.SplitN(rawURL, "?", 2)[0]

	existing, err := store.GetByURL(ctx, url)
	if err != nil {
		return err
	}
	if existing == nil {
		if _, _, err := store.Upsert(ctx, url, models.LeadUpdate{
			Title:        models.Str("Manual Target"),
			Neighborhood: models.Str("Manual"),
		}); err != nil {
			return err
		}
	} else if existing.Status != models.StatusPending {
		if err := store.SetStatus(ctx, existing.ID, models.StatusPending); err != nil {
			return err
		}
	}

	return w.ProcessPending(ctx)
}
