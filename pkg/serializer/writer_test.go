package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func fixtureApps() []testApp {
	return []testApp{
		{Shortname: "dummy_project", Domains: []string{"dummy-project.example.com"}, Workers: 4},
		{Shortname: "other", Workers: 2},
	}
}

func TestWriter_Serialize(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		decode func([]byte, any) error
	}{
		{name: "json", format: FormatJSON, decode: json.Unmarshal},
		{name: "yaml", format: FormatYAML, decode: yaml.Unmarshal},
		{name: "unknown falls back to json", format: Format("xml"), decode: json.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(tt.format, &buf).Serialize(context.Background(), fixtureApps()))

			var got []testApp
			require.NoError(t, tt.decode(buf.Bytes(), &got))
			assert.Equal(t, fixtureApps(), got)
		})
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), fixtureApps()))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "FIELD"))
	assert.Contains(t, lines[0], "VALUE")
	assert.Contains(t, out, "[0].shortname")
	assert.Contains(t, out, "[0].domains[0]")
	assert.Contains(t, out, "dummy-project.example.com")
	assert.Contains(t, out, "[1].workers")
}

func TestWriter_SerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), map[string]any{}))
	assert.Contains(t, buf.String(), "<empty>")
}

func TestWriter_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	assert.ErrorIs(t, NewWriter(FormatJSON, &buf).Serialize(ctx, fixtureApps()), context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestFormat(t *testing.T) {
	assert.False(t, FormatJSON.IsUnknown())
	assert.False(t, FormatTable.IsUnknown())
	assert.True(t, Format("toml").IsUnknown())
	assert.ElementsMatch(t, []string{"json", "yaml", "table"}, SupportedFormats())

	assert.Equal(t, FormatJSON, FormatFromPath("inventory.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("inventory.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("inventory"))
}

func TestNewFileWriterOrStdout(t *testing.T) {
	for _, path := range []string{"", "  ", StdoutURI} {
		s, err := NewFileWriterOrStdout(FormatJSON, path)
		require.NoError(t, err)
		assert.IsType(t, &Writer{}, s)
	}

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.yaml")
		s, err := NewFileWriterOrStdout(FormatYAML, path)
		require.NoError(t, err)
		require.NoError(t, s.Serialize(context.Background(), fixtureApps()))

		closer, ok := s.(Closer)
		require.True(t, ok)
		require.NoError(t, closer.Close())
		require.NoError(t, closer.Close())

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(b), "shortname: dummy_project")
	})

	t.Run("bad path", func(t *testing.T) {
		_, err := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "plan.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output file")
	})

	t.Run("configmap", func(t *testing.T) {
		s, err := NewFileWriterOrStdout(FormatYAML, "cm://stackconf/plan")
		require.NoError(t, err)
		assert.IsType(t, &ConfigMapWriter{}, s)
	})

	t.Run("invalid configmap", func(t *testing.T) {
		_, err := NewFileWriterOrStdout(FormatYAML, "cm://no-name")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid ConfigMap URI")
	})
}
