// Package main runs the catalog ingester.
//
// The ingester discovers the accounts of an AWS organization, maps each one to a
// catalog Component entity and writes the entities to the configured sink
// (stdout, PostgreSQL or Kafka). It runs once or on a fixed interval.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cloudcatalog/ingester/internal/awsorg"
	"github.com/cloudcatalog/ingester/internal/catalog"
	"github.com/cloudcatalog/ingester/internal/config"
	"github.com/cloudcatalog/ingester/internal/pipeline"
	"github.com/cloudcatalog/ingester/internal/sink"
	"github.com/cloudcatalog/ingester/internal/storage"
)

// Version information.
const (
	version = "1.0.0-dev"
	name    = "ingester"
)

func main() {
	versionFlag := flag.Bool("version", false, "show version information")
	onceFlag := flag.Bool("once", false, "run a single pass and exit, ignoring INGESTER_INTERVAL")
	flag.Parse()

	if *versionFlag {
		log.Printf("%s v%s\n", name, version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.GetEnvLogLevel("INGESTER_LOG_LEVEL", slog.LevelInfo),
	}))
	slog.SetDefault(logger)

	logger.Info("Starting ingester",
		slog.String("service", name),
		slog.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *onceFlag); err != nil {
		logger.Error("Ingester failed", slog.String("error", err.Error()))
		stop()
		//nolint:gocritic // stop is called explicitly; defer won't run with os.Exit
		os.Exit(1)
	}

	logger.Info("Ingester stopped")
}

func run(ctx context.Context, logger *slog.Logger, once bool) error {
	orgConfig := awsorg.LoadConfig()
	if err := orgConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AWS configuration: %w", err)
	}

	sinkConfig := sink.LoadConfig()
	if err := sinkConfig.Validate(); err != nil {
		return fmt.Errorf("invalid sink configuration: %w", err)
	}

	runConfig := pipeline.LoadConfig()
	if err := runConfig.Validate(); err != nil {
		return fmt.Errorf("invalid runner configuration: %w", err)
	}

	interval := runConfig.Interval
	if once {
		interval = 0
	}

	logger.Info("Loaded configuration",
		slog.String("aws_region", orgConfig.Region),
		slog.String("arn_policy", string(orgConfig.ARNPolicy)),
		slog.Float64("aws_rate_limit", orgConfig.RateLimit),
		slog.Int("aws_rate_burst", orgConfig.RateBurst),
		slog.String("sink", string(sinkConfig.Kind)),
		slog.Duration("interval", interval),
		slog.String("locations_path", runConfig.LocationsPath),
	)

	locations, err := pipeline.LoadLocations(runConfig.LocationsPath, []pipeline.LocationSpec{
		{Location: catalog.Location{Type: awsorg.LocationType}},
	})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if runConfig.MetricsAddr != "" {
		metricsServer := startMetricsServer(runConfig.MetricsAddr, registry, logger)
		defer shutdownMetricsServer(metricsServer, logger)
	}

	client, err := awsorg.NewClient(ctx, orgConfig)
	if err != nil {
		return err
	}

	var lister awsorg.AccountLister = awsorg.NewSDKLister(client)
	lister = awsorg.NewInstrumentedLister(lister, registry, logger)
	lister = awsorg.NewRateLimitedLister(lister, orgConfig.RateLimit, orgConfig.RateBurst)

	processor := awsorg.NewProcessor(lister,
		awsorg.WithARNPolicy(orgConfig.ARNPolicy),
		awsorg.WithLogger(logger),
	)

	out, err := openSink(sinkConfig, storage.LoadConfig(), os.Stdout, logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := out.Close(); err != nil {
			logger.Warn("Failed to close sink", slog.String("error", err.Error()))
		}
	}()

	runner := pipeline.NewRunner([]catalog.Processor{processor}, out,
		pipeline.WithValidator(catalog.NewValidator(awsorg.Annotations()...)),
		pipeline.WithMetrics(pipeline.NewMetrics(registry)),
		pipeline.WithLogger(logger),
	)

	err = runner.Loop(ctx, locations, interval)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
