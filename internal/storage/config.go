// Package storage persists catalog entities in PostgreSQL.
package storage

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/cloudcatalog/ingester/internal/config"
	"github.com/cloudcatalog/ingester/migrations"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

// ErrDatabaseURLEmpty is returned when DATABASE_URL is not set.
var ErrDatabaseURLEmpty = errors.New("database URL cannot be empty")

// Config holds PostgreSQL connection settings.
type Config struct {
	databaseURL     string
	MigrationsTable string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoadConfig reads DATABASE_* settings from the environment.
func LoadConfig() *Config {
	return &Config{
		databaseURL:     config.GetEnvStr("DATABASE_URL", ""), // unexported so it never ends up in logs
		MigrationsTable: config.GetEnvStr("DATABASE_MIGRATIONS_TABLE", migrations.DefaultTable),
		MaxOpenConns:    config.GetEnvInt("DATABASE_MAX_OPEN_CONNS", defaultMaxOpenConns),
		MaxIdleConns:    config.GetEnvInt("DATABASE_MAX_IDLE_CONNS", defaultMaxIdleConns),
		ConnMaxLifetime: config.GetEnvDuration("DATABASE_CONN_MAX_LIFETIME", defaultConnMaxLifetime),
		ConnMaxIdleTime: config.GetEnvDuration("DATABASE_CONN_MAX_IDLE_TIME", defaultConnMaxIdleTime),
	}
}

// Validate checks that a database URL is present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.databaseURL) == "" {
		return ErrDatabaseURLEmpty
	}

	return nil
}

// MaskDatabaseURL returns the database URL with its password redacted.
// Strings that do not parse as URLs (key=value DSNs) are fully hidden.
func (c *Config) MaskDatabaseURL() string {
	if c.databaseURL == "" {
		return ""
	}

	u, err := url.Parse(c.databaseURL)
	if err != nil || u.Scheme == "" {
		return "***"
	}

	return u.Redacted()
}
