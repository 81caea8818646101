// Package header stamps serialized stackconf documents with a
// Kubernetes-style kind, apiVersion and metadata block.
package header

import "time"

// APIVersion is the schema version of every stackconf document.
const APIVersion = "stackconf.io/v1"

// Metadata keys.
const (
	MetadataGeneratedAt = "generated-at"
	MetadataVersion     = "stackconf-version"
)

// Header identifies a serialized document.
type Header struct {
	Kind       string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Option configures a Header.
type Option func(*Header)

// WithMetadata adds a metadata entry.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		h.Metadata[key] = value
	}
}

// WithVersion records the stackconf version that produced the document.
func WithVersion(version string) Option {
	return WithMetadata(MetadataVersion, version)
}

// New returns a header of kind stamped with the current UTC time.
func New(kind string, opts ...Option) Header {
	h := Header{
		Kind:       kind,
		APIVersion: APIVersion,
		Metadata: map[string]string{
			MetadataGeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}
