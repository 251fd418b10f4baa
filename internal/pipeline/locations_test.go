package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

var defaultLocations = []LocationSpec{{Location: catalog.Location{Type: orgType}}}

func writeLocations(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".ingester.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadLocations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []LocationSpec
		wantErr error
	}{
		{
			name: "entries",
			content: `
locations:
  - type: aws-organization
    target: o-abc123
  - type: " github-org "
    optional: true
`,
			want: []LocationSpec{
				{Location: catalog.Location{Type: "aws-organization", Target: "o-abc123"}},
				{Location: catalog.Location{Type: "github-org"}, Optional: true},
			},
		},
		{
			name:    "empty file",
			content: "  \n",
			want:    defaultLocations,
		},
		{
			name:    "empty list",
			content: "locations: []\n",
			want:    defaultLocations,
		},
		{
			name:    "invalid yaml",
			content: "locations: [type: {\n",
			wantErr: ErrInvalidLocations,
		},
		{
			name:    "unknown key",
			content: "locations:\n  - type: aws-organization\n    regoin: eu-west-1\n",
			wantErr: ErrInvalidLocations,
		},
		{
			name:    "missing type",
			content: "locations:\n  - target: o-abc123\n",
			wantErr: ErrMissingLocationType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadLocations(writeLocations(t, tt.content), defaultLocations)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadLocations_MissingFile(t *testing.T) {
	got, err := LoadLocations(filepath.Join(t.TempDir(), "absent.yaml"), defaultLocations)
	require.NoError(t, err)
	assert.Equal(t, defaultLocations, got)
}

func TestLoadLocations_Unreadable(t *testing.T) {
	// A directory cannot be read as a file.
	_, err := LoadLocations(t.TempDir(), defaultLocations)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidLocations)
}
