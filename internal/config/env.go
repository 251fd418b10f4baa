// Package config reads ingester settings from the environment.
//
// Every getter falls back to the supplied default when the variable is unset
// or cannot be parsed, so callers never have to handle a configuration error
// for an optional knob. Required settings are checked by the Validate methods
// of the packages that own them.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvStr returns the value of key, or defaultValue when it is unset or empty.
//
// Example:
//
//	region := GetEnvStr("INGESTER_AWS_REGION", "us-east-1")
func GetEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// GetEnvInt returns key parsed as an int, or defaultValue.
func GetEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// GetEnvFloat returns key parsed as a float64, or defaultValue.
//
// Example:
//
//	rps := GetEnvFloat("INGESTER_AWS_RATE_LIMIT", 0)
func GetEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// GetEnvBool returns key as a bool, or defaultValue.
// Accepts "true", "1", "yes" and "false", "0", "no" in any case.
func GetEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

// GetEnvDuration returns key parsed with time.ParseDuration, or defaultValue.
//
// Example:
//
//	interval := GetEnvDuration("INGESTER_INTERVAL", 0)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// GetEnvLogLevel maps key to a slog.Level ("debug", "info", "warn"/"warning", "error").
func GetEnvLogLevel(key string, defaultValue slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultValue
	}
}

// ParseCommaSeparatedList splits input on commas, trimming each entry and
// dropping empty ones.
func ParseCommaSeparatedList(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}

	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
