package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// DefaultTable is the golang-migrate bookkeeping table.
const DefaultTable = "schema_migrations"

// migrateLogger routes golang-migrate output through slog.
type migrateLogger struct {
	logger *slog.Logger
}

var _ migrate.Logger = (*migrateLogger)(nil)

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "migrate"))
}

func (l *migrateLogger) Verbose() bool {
	return false
}

// ErrNoVersion is returned by Version when no migration has been applied.
var ErrNoVersion = errors.New("no migration applied")

func newMigrate(db *sql.DB, table string, logger *slog.Logger) (*migrate.Migrate, string, error) {
	if err := Validate(embedded); err != nil {
		return nil, "", fmt.Errorf("embedded migration validation failed: %w", err)
	}

	if table == "" {
		table = DefaultTable
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: table})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(embedded, ".")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create embedded migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create migrate instance: %w", err)
	}

	m.Log = &migrateLogger{logger: logger}

	return m, table, nil
}

// Up validates the embedded migrations and applies any pending ones to db.
// An already up-to-date schema is not an error.
//
// db stays open afterwards; the caller owns it.
func Up(db *sql.DB, table string, logger *slog.Logger) error {
	m, table, err := newMigrate(db, table, logger)
	if err != nil {
		return err
	}

	err = m.Up()

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("Database schema up to date", slog.String("migrations_table", table))
	case err != nil:
		return fmt.Errorf("migration up failed: %w", err)
	default:
		version, dirty, _ := m.Version()
		logger.Info("Database migrations applied",
			slog.String("migrations_table", table),
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)
	}

	return nil
}

// Down rolls back the most recently applied migration.
func Down(db *sql.DB, table string, logger *slog.Logger) error {
	m, table, err := newMigrate(db, table, logger)
	if err != nil {
		return err
	}

	err = m.Steps(-1)

	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, migrate.ErrNoChange):
		logger.Info("No migration to roll back", slog.String("migrations_table", table))
	case err != nil:
		return fmt.Errorf("migration down failed: %w", err)
	default:
		logger.Info("Rolled back one migration", slog.String("migrations_table", table))
	}

	return nil
}

// Version reports the applied schema version and whether the last migration
// failed halfway.
func Version(db *sql.DB, table string, logger *slog.Logger) (uint, bool, error) {
	m, _, err := newMigrate(db, table, logger)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, ErrNoVersion
	}

	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}

	return version, dirty, nil
}
