package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

var (
	// ErrInvalidLocations is returned when the locations file cannot be parsed.
	ErrInvalidLocations = errors.New("invalid locations file")

	// ErrMissingLocationType is returned for a location entry without a type.
	ErrMissingLocationType = errors.New("location type is required")
)

// LocationSpec is a location plus whether the runner may skip it when no
// processor claims it.
type LocationSpec struct {
	catalog.Location `yaml:",inline"`

	Optional bool `yaml:"optional,omitempty"`
}

type locationsFile struct {
	Locations []LocationSpec `yaml:"locations"`
}

// LoadLocations reads the locations file at path.
//
// A missing or empty file yields defaults. Unknown keys and entries without
// a type are rejected.
func LoadLocations(path string, defaults []LocationSpec) ([]LocationSpec, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("Locations file not found, using defaults",
				slog.String("path", path),
				slog.Int("locations", len(defaults)))

			return defaults, nil
		}

		return nil, fmt.Errorf("failed to read locations file %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return defaults, nil
	}

	var file locationsFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidLocations, path, err)
	}

	if len(file.Locations) == 0 {
		return defaults, nil
	}

	for i := range file.Locations {
		loc := &file.Locations[i]
		loc.Type = strings.TrimSpace(loc.Type)

		if loc.Type == "" {
			return nil, fmt.Errorf("%w: %s: entry %d", ErrMissingLocationType, path, i)
		}
	}

	return file.Locations, nil
}
