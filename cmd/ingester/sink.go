package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudcatalog/ingester/internal/sink"
	"github.com/cloudcatalog/ingester/internal/storage"
	"github.com/cloudcatalog/ingester/migrations"
)

// openSink builds the sink selected by cfg. The postgres sink connects and
// migrates the schema before returning.
func openSink(cfg *sink.Config, storageConfig *storage.Config, stdout io.Writer, logger *slog.Logger) (sink.Sink, error) {
	switch cfg.Kind {
	case sink.KindStdout:
		w, err := sink.NewWriterSink(stdout, cfg.Format)
		if err != nil {
			return nil, err
		}

		return w, nil

	case sink.KindKafka:
		logger.Info("Kafka sink initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", cfg.KafkaTopic),
		)

		return sink.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic), nil

	case sink.KindPostgres:
		conn, err := storage.NewConnection(storageConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := migrations.Up(conn.DB, storageConfig.MigrationsTable, logger); err != nil {
			_ = conn.Close()

			return nil, err
		}

		logger.Info("Entity store initialized",
			slog.String("database_url", storageConfig.MaskDatabaseURL()),
			slog.Int("database_max_open_conns", storageConfig.MaxOpenConns),
			slog.Int("database_max_idle_conns", storageConfig.MaxIdleConns),
			slog.Duration("database_conn_max_lifetime", storageConfig.ConnMaxLifetime),
			slog.Duration("database_conn_max_idle_time", storageConfig.ConnMaxIdleTime),
		)

		return storage.NewEntityStore(conn), nil

	default:
		return nil, fmt.Errorf("%w: %q", sink.ErrUnknownSink, cfg.Kind)
	}
}
