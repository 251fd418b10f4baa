// Package main provides the database migration CLI for the ingester's
// PostgreSQL entity store.
//
// Migrations are embedded in the binary; only DATABASE_URL is required.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/cloudcatalog/ingester/internal/config"
	"github.com/cloudcatalog/ingester/internal/storage"
	"github.com/cloudcatalog/ingester/migrations"
)

// Version information.
const (
	version = "1.0.0-dev"
	name    = "migrator"
)

var errUnknownCommand = errors.New("unknown command")

// migrator is the subset of the migrations package the CLI drives.
type migrator struct {
	up      func(db *sql.DB, table string, logger *slog.Logger) error
	down    func(db *sql.DB, table string, logger *slog.Logger) error
	version func(db *sql.DB, table string, logger *slog.Logger) (uint, bool, error)
}

var embeddedMigrator = migrator{
	up:      migrations.Up,
	down:    migrations.Down,
	version: migrations.Version,
}

func main() {
	showVersion := flag.Bool("version", false, "show version information")
	flag.Usage = func() { printUsage(os.Stderr) }
	flag.Parse()

	if *showVersion {
		log.Printf("%s v%s\n", name, version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.GetEnvLogLevel("INGESTER_LOG_LEVEL", slog.LevelInfo),
	}))

	storageConfig := storage.LoadConfig()

	conn, err := storage.NewConnection(storageConfig)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Connected to database", slog.String("database_url", storageConfig.MaskDatabaseURL()))

	err = executeCommand(flag.Arg(0), embeddedMigrator, conn.DB, storageConfig.MigrationsTable, os.Stdout, logger)
	_ = conn.Close()

	if err != nil {
		logger.Error("Migration failed", slog.String("command", flag.Arg(0)), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// executeCommand runs one CLI command against db.
func executeCommand(command string, m migrator, db *sql.DB, table string, out io.Writer, logger *slog.Logger) error {
	switch command {
	case "up":
		return m.up(db, table, logger)
	case "down":
		return m.down(db, table, logger)
	case "version":
		v, dirty, err := m.version(db, table, logger)
		if errors.Is(err, migrations.ErrNoVersion) {
			_, _ = fmt.Fprintln(out, "no migrations applied")

			return nil
		}

		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "version %d (dirty: %t)\n", v, dirty)

		return nil
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, command)
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, `%s v%s - database migrations for the ingester entity store

USAGE:
    %s [OPTIONS] COMMAND

COMMANDS:
    up       Apply all pending migrations
    down     Roll back the last migration
    version  Show the current migration version

OPTIONS:
    -version  Show version information

ENVIRONMENT VARIABLES:
    DATABASE_URL               PostgreSQL connection string (required)
    DATABASE_MIGRATIONS_TABLE  Migration tracking table (default: schema_migrations)
`, name, version, name)
}
