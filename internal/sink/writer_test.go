package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

func TestWriterSink_JSONLines(t *testing.T) {
	var buf bytes.Buffer

	s, err := NewWriterSink(&buf, FormatJSON)
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), accountEntity("payments-prod")))
	require.NoError(t, s.Write(context.Background(), accountEntity("payments-dev")))
	require.NoError(t, s.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first catalog.Entity
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, accountEntity("payments-prod"), first)
	assert.Contains(t, lines[1], `"apiVersion":"backstage.io/v1alpha1"`)
}

func TestWriterSink_YAMLDocuments(t *testing.T) {
	var buf bytes.Buffer

	s, err := NewWriterSink(&buf, FormatYAML)
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), accountEntity("payments-prod")))
	require.NoError(t, s.Write(context.Background(), accountEntity("payments-dev")))
	require.NoError(t, s.Close())

	decoder := yaml.NewDecoder(&buf)

	var names []string

	for {
		var entity catalog.Entity

		err := decoder.Decode(&entity)
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)
		assert.Equal(t, "o-abc123", entity.Metadata.Annotations["amazonaws.com/organization-id"])
		names = append(names, entity.Metadata.Name)
	}

	assert.Equal(t, []string{"payments-prod", "payments-dev"}, names)
}

func TestNewWriterSink_UnknownFormat(t *testing.T) {
	_, err := NewWriterSink(io.Discard, "xml")

	assert.ErrorIs(t, err, ErrUnknownFormat)
}
