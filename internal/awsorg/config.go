package awsorg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudcatalog/ingester/internal/config"
)

const (
	// DefaultRegion is where the Organizations API is served from.
	DefaultRegion = "us-east-1"

	defaultRateBurst = 1
)

// ARNPolicy decides what happens to an account whose ARN does not carry both
// an account id and an organization id.
type ARNPolicy string

const (
	// ARNPolicyLenient emits the entity with empty id annotations.
	ARNPolicyLenient ARNPolicy = "lenient"

	// ARNPolicyStrict emits an error result instead of the entity.
	ARNPolicyStrict ARNPolicy = "strict"
)

var (
	// ErrEmptyRegion indicates no AWS region was configured.
	ErrEmptyRegion = errors.New("AWS region cannot be empty")

	// ErrInvalidARNPolicy indicates an ARN policy other than lenient or strict.
	ErrInvalidARNPolicy = errors.New("invalid ARN policy")

	// ErrInvalidRateLimit indicates a negative request rate.
	ErrInvalidRateLimit = errors.New("rate limit cannot be negative")
)

// ParseARNPolicy parses "lenient" or "strict", case-insensitively.
func ParseARNPolicy(s string) (ARNPolicy, error) {
	switch policy := ARNPolicy(strings.ToLower(strings.TrimSpace(s))); policy {
	case ARNPolicyLenient, ARNPolicyStrict:
		return policy, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: lenient, strict)", ErrInvalidARNPolicy, s)
	}
}

// Config holds the AWS Organizations settings.
type Config struct {
	Region    string
	ARNPolicy ARNPolicy

	// RateLimit caps ListAccounts calls per second; 0 disables pacing.
	RateLimit float64
	RateBurst int
}

// LoadConfig reads INGESTER_AWS_* settings from the environment.
func LoadConfig() *Config {
	return &Config{
		Region:    config.GetEnvStr("INGESTER_AWS_REGION", DefaultRegion),
		ARNPolicy: ARNPolicy(strings.ToLower(strings.TrimSpace(
			config.GetEnvStr("INGESTER_ARN_POLICY", string(ARNPolicyLenient)),
		))),
		RateLimit: config.GetEnvFloat("INGESTER_AWS_RATE_LIMIT", 0),
		RateBurst: config.GetEnvInt("INGESTER_AWS_RATE_BURST", defaultRateBurst),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Region) == "" {
		return ErrEmptyRegion
	}

	if _, err := ParseARNPolicy(string(c.ARNPolicy)); err != nil {
		return err
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRateLimit, c.RateLimit)
	}

	return nil
}
