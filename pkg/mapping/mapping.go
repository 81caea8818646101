// Package mapping provides the Resolved Configuration Mapping: an ordered,
// immutable key/value document produced by a driver and consumed by the
// renderer. Mappings are only created through a Builder, whose Build step
// enforces the keys an artifact requires.
package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/stackconf/stackconf/pkg/errors"
)

// Pair is an ordered key/value entry, used for environment variable lists.
type Pair struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Mapping is an ordered, read-only set of resolved settings.
type Mapping struct {
	keys   []string
	values map[string]any
}

// Builder accumulates entries for a Mapping. Setting an existing key
// replaces its value and keeps its original position.
type Builder struct {
	keys   []string
	values map[string]any
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{values: make(map[string]any)}
}

// Set stores value under key. Slices are copied so later mutation by the
// caller cannot leak into the built Mapping.
func (b *Builder) Set(key string, value any) *Builder {
	switch v := value.(type) {
	case []string:
		value = slices.Clone(v)
	case []Pair:
		value = slices.Clone(v)
	}
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
	return b
}

// SetIf calls Set only when cond holds.
func (b *Builder) SetIf(cond bool, key string, value any) *Builder {
	if cond {
		return b.Set(key, value)
	}
	return b
}

// Build returns the Mapping, or a MISSING_REQUIRED_KEY error naming the
// first required key that was never set. Nothing is returned on failure so a
// caller cannot render a partial mapping.
func (b *Builder) Build(required ...string) (*Mapping, error) {
	for _, key := range required {
		if _, ok := b.values[key]; !ok {
			return nil, errors.New(errors.ErrCodeMissingRequiredKey,
				fmt.Sprintf("mapping is missing required key %q", key)).
				WithContext("field", key)
		}
	}
	m := &Mapping{
		keys:   slices.Clone(b.keys),
		values: make(map[string]any, len(b.values)),
	}
	for k, v := range b.values {
		m.values[k] = v
	}
	return m, nil
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// String returns the value under key as a string, empty when absent.
func (m *Mapping) String(key string) string {
	return cast.ToString(m.values[key])
}

// Int returns the value under key as an int, zero when absent.
func (m *Mapping) Int(key string) int {
	return cast.ToInt(m.values[key])
}

// Bool returns the value under key as a bool, false when absent.
func (m *Mapping) Bool(key string) bool {
	return cast.ToBool(m.values[key])
}

// Pairs returns the value under key as a Pair list, nil when absent.
func (m *Mapping) Pairs(key string) []Pair {
	p, _ := m.values[key].([]Pair)
	return slices.Clone(p)
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// ToMap returns an unordered deep copy, nested mappings included. Template
// rendering uses this form.
func (m *Mapping) ToMap() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		switch v := m.values[k].(type) {
		case *Mapping:
			out[k] = v.ToMap()
		case []string:
			out[k] = slices.Clone(v)
		case []Pair:
			out[k] = slices.Clone(v)
		default:
			out[k] = v
		}
	}
	return out
}

// MarshalYAML emits the entries in insertion order.
func (m *Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}

		var valNode *yaml.Node
		if nested, ok := m.values[k].(*Mapping); ok {
			n, err := nested.MarshalYAML()
			if err != nil {
				return nil, err
			}
			valNode = n.(*yaml.Node)
		} else {
			valNode = &yaml.Node{}
			if err := valNode.Encode(m.values[k]); err != nil {
				return nil, fmt.Errorf("failed to encode %q: %w", k, err)
			}
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// MarshalJSON emits the entries in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Environments wraps m once per environment name, in the given order, each
// entry sharing the same resolved mapping. This is the fan-out applied when
// a connection file is rendered.
func Environments(m *Mapping, envs []string) *Mapping {
	b := NewBuilder()
	for _, env := range envs {
		b.Set(env, m)
	}
	out, _ := b.Build()
	return out
}
