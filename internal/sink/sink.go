// Package sink delivers catalog entities produced by the pipeline.
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudcatalog/ingester/internal/catalog"
	"github.com/cloudcatalog/ingester/internal/config"
)

// Sink receives validated entities. Write is called sequentially per read.
type Sink interface {
	Write(ctx context.Context, entity catalog.Entity) error
	Close() error
}

// Kind names a sink implementation.
type Kind string

const (
	KindStdout   Kind = "stdout"
	KindPostgres Kind = "postgres"
	KindKafka    Kind = "kafka"
)

const defaultKafkaTopic = "catalog-entities"

var (
	// ErrUnknownSink indicates an INGESTER_SINK value that is not supported.
	ErrUnknownSink = errors.New("unknown sink")

	// ErrNoKafkaBrokers indicates the kafka sink was selected without brokers.
	ErrNoKafkaBrokers = errors.New("kafka sink requires at least one broker")

	// ErrEmptyKafkaTopic indicates the kafka sink was selected without a topic.
	ErrEmptyKafkaTopic = errors.New("kafka topic cannot be empty")
)

// Config selects and configures the sink.
type Config struct {
	Kind         Kind
	Format       Format
	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig reads INGESTER_SINK and related settings.
func LoadConfig() *Config {
	return &Config{
		Kind:         Kind(strings.ToLower(config.GetEnvStr("INGESTER_SINK", string(KindStdout)))),
		Format:       Format(strings.ToLower(config.GetEnvStr("INGESTER_OUTPUT_FORMAT", string(FormatJSON)))),
		KafkaBrokers: config.ParseCommaSeparatedList(config.GetEnvStr("INGESTER_KAFKA_BROKERS", "")),
		KafkaTopic:   config.GetEnvStr("INGESTER_KAFKA_TOPIC", defaultKafkaTopic),
	}
}

// Validate checks the settings relevant to the selected sink.
func (c *Config) Validate() error {
	switch c.Kind {
	case KindStdout:
		if c.Format != FormatJSON && c.Format != FormatYAML {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Format)
		}
	case KindPostgres:
	case KindKafka:
		if len(c.KafkaBrokers) == 0 {
			return ErrNoKafkaBrokers
		}

		if strings.TrimSpace(c.KafkaTopic) == "" {
			return ErrEmptyKafkaTopic
		}
	default:
		return fmt.Errorf("%w: %q (valid: stdout, postgres, kafka)", ErrUnknownSink, c.Kind)
	}

	return nil
}
