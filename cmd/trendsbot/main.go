package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/samorobo/twitter-trends-bot/internal/browser"
	"github.com/samorobo/twitter-trends-bot/internal/config"
	"github.com/samorobo/twitter-trends-bot/internal/images"
	"github.com/samorobo/twitter-trends-bot/internal/metrics"
	"github.com/samorobo/twitter-trends-bot/internal/pipeline"
	"github.com/samorobo/twitter-trends-bot/internal/report"
	"github.com/samorobo/twitter-trends-bot/internal/storage"
	"github.com/samorobo/twitter-trends-bot/internal/storage/csvbackend"
	"github.com/samorobo/twitter-trends-bot/internal/storage/jsonbackend"
	"github.com/samorobo/twitter-trends-bot/internal/storage/postgres"
	"github.com/samorobo/twitter-trends-bot/internal/storage/sqlite"
	"github.com/samorobo/twitter-trends-bot/internal/trends"
	"github.com/samorobo/twitter-trends-bot/pkg/proxy"
	"github.com/samorobo/twitter-trends-bot/pkg/ratelimit"
)

func main() {
	envFile := flag.String("env", "", "path to .env file (defaults to ./.env)")
	outFile := flag.String("out", "", "output JSON file (overrides TRENDS_OUTPUT_FILE)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*envFile, *outFile, logger); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func run(envFile, outFile string, logger *slog.Logger) error {
	ctx := context.Background()

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if outFile != "" {
		cfg.OutputFile = outFile
	}

	if cfg.MetricsPort > 0 {
		srv := metrics.Start(cfg.MetricsPort)
		defer func() { _ = srv.Stop(ctx) }()
	}

	var proxies *proxy.Pool
	if cfg.ProxyFile != "" {
		proxies = proxy.NewPool(proxy.Config{})
		if err := proxies.LoadFile(cfg.ProxyFile); err != nil {
			return err
		}
	}

	extractor := browser.NewExtractor(browser.Options{
		WaitTimeout: cfg.WaitTimeout,
		Proxies:     proxies,
		Logger:      logger,
	})

	selector := trends.NewSelector(logger,
		trends.GetDayTrends(extractor, cfg.Region),
		trends.Trends24(extractor, cfg.Region),
		trends.NewStaticSource(cfg.StaticTopics),
	)

	resolver, err := images.NewResolver(images.Config{
		APIKey:         cfg.APIKey,
		SearchEngineID: cfg.SearchEngineID,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	limiter := ratelimit.NewLimiter(cfg.EnrichDelay, 0)
	defer limiter.Stop()

	backend, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	if backend != nil {
		defer func() { _ = backend.Close() }()
	}

	p := &pipeline.Pipeline{
		Selector: selector,
		Resolver: resolver,
		Limiter:  limiter,
		Backend:  backend,
		Country:  cfg.Country,
		Logger:   logger,
	}

	record, err := p.Run(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := report.WriteJSON(f, record); err != nil {
		return err
	}
	logger.Info("results written", "file", cfg.OutputFile, "trends", len(record.Trends))

	return report.WriteText(os.Stdout, record)
}

// openBackends assembles the configured run-record stores. With none
// configured it returns nil and the record is only written to the output file.
func openBackends(ctx context.Context, cfg config.Config) (storage.Backend, error) {
	var backends []storage.Backend

	if cfg.NDJSONPath != "" {
		b, err := jsonbackend.New(cfg.NDJSONPath)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	if cfg.SQLitePath != "" {
		b, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	if cfg.PostgresDSN != "" {
		b, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	if cfg.CSVPath != "" {
		b, err := csvbackend.New(cfg.CSVPath)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}

	switch len(backends) {
	case 0:
		return nil, nil
	case 1:
		return backends[0], nil
	default:
		return storage.NewMulti(backends...), nil
	}
}
