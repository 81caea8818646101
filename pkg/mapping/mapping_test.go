package mapping

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/stackconf/stackconf/pkg/errors"
)

func TestBuilder_Build(t *testing.T) {
	m, err := NewBuilder().
		Set("adapter", "postgresql").
		Set("host", "db.example.com").
		Set("port", 5432).
		Build("adapter", "host", "port")
	require.NoError(t, err)

	assert.Equal(t, []string{"adapter", "host", "port"}, m.Keys())
	assert.Equal(t, "postgresql", m.String("adapter"))
	assert.Equal(t, 5432, m.Int("port"))
	assert.Equal(t, "5432", m.String("port"))
	assert.Equal(t, 3, m.Len())
}

func TestBuilder_MissingRequiredKey(t *testing.T) {
	m, err := NewBuilder().Set("adapter", "mysql2").Build("adapter", "pool", "timeout")

	assert.Nil(t, m)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingRequiredKey))
	assert.Contains(t, err.Error(), `"pool"`)
}

func TestBuilder_SetKeepsPosition(t *testing.T) {
	m, err := NewBuilder().
		Set("a", 1).
		Set("b", 2).
		Set("a", 3).
		SetIf(false, "c", 4).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, 3, m.Int("a"))
	assert.False(t, m.Has("c"))
}

func TestMapping_IsolatedFromBuilder(t *testing.T) {
	domains := []string{"a.example.com"}
	b := NewBuilder().Set("domains", domains)
	m, err := b.Build()
	require.NoError(t, err)

	domains[0] = "mutated"
	b.Set("extra", true)

	v, _ := m.Get("domains")
	assert.Equal(t, []string{"a.example.com"}, v)
	assert.False(t, m.Has("extra"))
}

func TestMapping_MarshalYAMLPreservesOrder(t *testing.T) {
	m, err := NewBuilder().
		Set("zeta", "last-alphabetically").
		Set("alpha", 1).
		Set("env", []Pair{{Key: "ENV_VAR1", Value: "test"}}).
		Build()
	require.NoError(t, err)

	out, err := yaml.Marshal(m)
	require.NoError(t, err)

	want := "zeta: last-alphabetically\nalpha: 1\nenv:\n    - key: ENV_VAR1\n      value: test\n"
	assert.Equal(t, want, string(out))
}

func TestMapping_MarshalJSONPreservesOrder(t *testing.T) {
	m, err := NewBuilder().Set("b", "x").Set("a", true).Build()
	require.NoError(t, err)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"x","a":true}`, string(out))
}

func TestEnvironments(t *testing.T) {
	m, err := NewBuilder().Set("adapter", "postgresql").Set("pool", 6).Build()
	require.NoError(t, err)

	wrapped := Environments(m, []string{"development", "production"})
	out, err := yaml.Marshal(wrapped)
	require.NoError(t, err)

	want := "development:\n    adapter: postgresql\n    pool: 6\nproduction:\n    adapter: postgresql\n    pool: 6\n"
	assert.Equal(t, want, string(out))

	var decoded map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, decoded["development"], decoded["production"])
}

func TestMapping_ToMap(t *testing.T) {
	inner, err := NewBuilder().Set("x", 1).Build()
	require.NoError(t, err)
	m, err := NewBuilder().Set("inner", inner).Set("s", "v").Build()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"inner": map[string]any{"x": 1},
		"s":     "v",
	}, m.ToMap())
}

func TestMapping_OrderIsInsertionOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z_]{1,12}`), func(s string) string { return s }).
			Draw(t, "keys")

		b := NewBuilder()
		for i, k := range keys {
			b.Set(k, i)
		}
		m, err := b.Build(keys...)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		got := m.Keys()
		if strings.Join(got, ",") != strings.Join(keys, ",") {
			t.Fatalf("Keys() = %v, want %v", got, keys)
		}

		first, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		second, _ := json.Marshal(m)
		if string(first) != string(second) {
			t.Fatal("MarshalJSON() is not deterministic")
		}
		for i := 1; i < len(keys); i++ {
			prev := strings.Index(string(first), fmt.Sprintf("%q:", keys[i-1]))
			next := strings.Index(string(first), fmt.Sprintf("%q:", keys[i]))
			if prev > next {
				t.Fatalf("key %q emitted after %q", keys[i-1], keys[i])
			}
		}
	})
}
