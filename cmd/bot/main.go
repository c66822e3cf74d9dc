package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ChartSentinel/internal/batch"
	"ChartSentinel/internal/bot"
	"ChartSentinel/internal/chart"
	"ChartSentinel/internal/collector"
	"ChartSentinel/internal/config"
	"ChartSentinel/internal/metrics"
	"ChartSentinel/internal/notifier"
	"ChartSentinel/internal/recorder"
	"ChartSentinel/internal/scheduler"
	"ChartSentinel/internal/server"
	"ChartSentinel/internal/watchlist"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Info().Msg("ChartSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	setupLogging(cfg.Log.Level)

	m := metrics.NewMetrics()

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderVsTrader:
		fetcher = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderMock:
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	fetcher = collector.NewCachedFetcher(fetcher, cfg.DataSource.CacheTTL)
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init chart pipeline
	col := collector.NewCollector(fetcher, cfg.Chart.DonchianWindow)
	chartCfg := chart.DefaultConfig()
	chartCfg.Width, chartCfg.Height = cfg.Chart.Width, cfg.Chart.Height
	builder := chart.NewBuilder(col, chartCfg)
	builder.Observer = bot.RenderObserver(m, rec)

	// Init watchlist
	store, err := watchlist.NewFileStore(cfg.Watchlist.File)
	if err != nil {
		log.Fatal().Err(err).Msg("init watchlist")
	}
	log.Info().Str("file", cfg.Watchlist.File).Int("entries", len(store.List())).Msg("watchlist loaded")

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifierWithBaseURL(cfg.Telegram.APIBase, cfg.Telegram.BotToken, cfg.Proxy)
	tn.Metrics = m

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer := batch.NewRenderer(builder, tn)
	renderer.Delay = cfg.Batch.Delay
	queue := batch.NewQueue(ctx, renderer, bot.BatchCompletion(rec))
	queue.Metrics = m

	handler := bot.NewHandler(store, builder, queue, tn)
	handler.Metrics = m
	handler.DefaultDays = cfg.Chart.DefaultDays

	// Init scheduler
	if cfg.Schedule.DigestCron != "" {
		sched := scheduler.NewScheduler(store, queue, cfg.Schedule.DigestChatID, cfg.Schedule.DigestDays)
		if err := sched.Register(cfg.Schedule.DigestCron); err != nil {
			log.Fatal().Err(err).Msg("register cron tasks")
		}
		sched.Start()
		defer sched.Stop()

		if os.Getenv("RUN_ON_START") == "true" {
			log.Info().Msg("RUN_ON_START enabled, queueing digest now")
			sched.RunDigestNow()
		}
	}

	// HTTP server: webhook, liveness and metrics
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.New(cfg.Telegram.BotToken, handler.HandleUpdate, m),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("mode", cfg.Telegram.Mode).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	if cfg.Telegram.Mode == config.ModePolling {
		go tn.StartPolling(ctx, handler.HandleUpdate)
		log.Info().Msg("telegram polling started")
	}

	log.Info().Msg("ChartSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown")
	}
	queue.Wait()
	log.Info().Msg("ChartSentinel stopped")
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if lvl > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}
