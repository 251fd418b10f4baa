package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

// Format is the encoding used by WriterSink.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"

	// FormatYAML writes a stream of "---"-separated YAML documents.
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat indicates an output format other than json or yaml.
var ErrUnknownFormat = errors.New("unknown output format")

type entityEncoder interface {
	Encode(v any) error
}

// WriterSink encodes entities to an io.Writer.
type WriterSink struct {
	mu      sync.Mutex
	encoder entityEncoder
	closer  func() error
}

var _ Sink = (*WriterSink)(nil)

// NewWriterSink returns a sink writing entities to w in format.
func NewWriterSink(w io.Writer, format Format) (*WriterSink, error) {
	switch format {
	case FormatJSON:
		return &WriterSink{encoder: json.NewEncoder(w), closer: func() error { return nil }}, nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		return &WriterSink{encoder: enc, closer: enc.Close}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Write encodes entity.
func (s *WriterSink) Write(_ context.Context, entity catalog.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.encoder.Encode(entity); err != nil {
		return fmt.Errorf("failed to encode %s: %w", entity.Ref(), err)
	}

	return nil
}

// Close flushes the encoder. It does not close the underlying writer.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closer()
}
