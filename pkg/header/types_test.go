package header

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	h := New("Plan", WithVersion("1.2.3"), WithMetadata("host", "web-1"))

	assert.Equal(t, "Plan", h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "1.2.3", h.Metadata[MetadataVersion])
	assert.Equal(t, "web-1", h.Metadata["host"])

	ts, err := time.Parse(time.RFC3339, h.Metadata[MetadataGeneratedAt])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}
