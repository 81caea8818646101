// Package tlsmaterial resolves and persists the TLS key, certificate, chain
// and Diffie-Hellman parameters the web server references.
//
// Files live at <tls dir>/<first domain>.{key,crt,ca,dhparams.pem}. A set
// that already exists on disk is never touched. Otherwise the operator must
// supply all four parts or none; with none, the whole set is generated.
package tlsmaterial

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/moby/sys/atomicwriter"

	"github.com/stackconf/stackconf/pkg/attributes"
	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/descriptor"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/errors"
)

// Source records where the material on disk came from.
type Source string

const (
	SourceOperator  Source = "operator"
	SourceGenerated Source = "generated"
	SourceExisting  Source = "existing"
)

// Record locates the four TLS files. Source is empty until the record has
// been through a Resolver.
type Record struct {
	KeyPath         string `json:"key_path" yaml:"key_path"`
	CertificatePath string `json:"certificate_path" yaml:"certificate_path"`
	ChainPath       string `json:"chain_path" yaml:"chain_path"`
	DHParamsPath    string `json:"dhparams_path" yaml:"dhparams_path"`
	Source          Source `json:"source,omitempty" yaml:"source,omitempty"`
}

// TLSPaths returns the paths the web server driver needs.
func (r Record) TLSPaths() driver.TLSPaths {
	return driver.TLSPaths{
		KeyPath:         r.KeyPath,
		CertificatePath: r.CertificatePath,
		ChainPath:       r.ChainPath,
		DHParamsPath:    r.DHParamsPath,
	}
}

// Paths computes the record for attrs without touching the filesystem.
func Paths(cfg *config.Config, attrs *attributes.Attributes) Record {
	base := filepath.Join(cfg.TLSDir(), attrs.FirstDomain())
	return Record{
		KeyPath:         base + ".key",
		CertificatePath: base + ".crt",
		ChainPath:       base + ".ca",
		DHParamsPath:    base + ".dhparams.pem",
	}
}

// Material is the content of the four TLS files.
type Material struct {
	PrivateKey  string
	Certificate string
	Chain       string
	DHParams    string
}

// Supplied collects the operator-supplied material for app. The DH
// parameters come from the normalized overrides.
func Supplied(app *descriptor.Application, attrs *attributes.Attributes) Material {
	m := Material{DHParams: attrs.DHParams}
	if app.SSLConfiguration != nil {
		m.PrivateKey = app.SSLConfiguration.PrivateKey
		m.Certificate = app.SSLConfiguration.Certificate
		m.Chain = app.SSLConfiguration.Chain
	}
	return m
}

// missing returns the names of empty parts.
func (m Material) missing() []string {
	var out []string
	for _, f := range m.fields() {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

type field struct {
	name  string
	value string
}

func (m Material) fields() []field {
	return []field{
		{"private_key", m.PrivateKey},
		{"certificate", m.Certificate},
		{"chain", m.Chain},
		{"dhparams", m.DHParams},
	}
}

// Generator produces a complete material set for the given domains.
type Generator interface {
	Generate(ctx context.Context, domains []string) (*Material, error)
}

// Resolver persists TLS material under a root prefix. Check-then-write runs
// under a per-application lock.
type Resolver struct {
	cfg       *config.Config
	generator Generator

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithGenerator replaces the self-signed generator.
func WithGenerator(g Generator) Option {
	return func(r *Resolver) {
		r.generator = g
	}
}

// NewResolver creates a Resolver writing beneath cfg.RootPrefix().
func NewResolver(cfg *config.Config, opts ...Option) *Resolver {
	r := &Resolver{
		cfg:       cfg,
		generator: NewSelfSignedGenerator(),
		locks:     make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// lockFor returns the lock guarding the material set at keyPath. Locks are
// keyed by file, not application, so applications sharing a first domain
// serialize on the same set.
func (r *Resolver) lockFor(keyPath string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[keyPath]
	if !ok {
		l = &sync.Mutex{}
		r.locks[keyPath] = l
	}
	return l
}

// Resolve makes sure the four TLS files for attrs exist and returns their
// record.
func (r *Resolver) Resolve(ctx context.Context, attrs *attributes.Attributes, supplied Material) (*Record, error) {
	rec := Paths(r.cfg, attrs)

	l := r.lockFor(rec.KeyPath)
	l.Lock()
	defer l.Unlock()

	if r.allExist(rec) {
		rec.Source = SourceExisting
		tlsMaterialTotal.WithLabelValues(string(rec.Source)).Inc()
		slog.Debug("tls material already present", "app", attrs.Shortname, "path", rec.CertificatePath)
		return &rec, nil
	}

	material := supplied
	missing := supplied.missing()
	switch {
	case len(missing) == 0:
		rec.Source = SourceOperator
	case len(missing) == len(supplied.fields()):
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "tls generation canceled", err).
				WithContext("app", attrs.Shortname)
		}
		generated, err := r.generator.Generate(ctx, attrs.Domains)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to generate tls material", err).
				WithContext("app", attrs.Shortname)
		}
		material = *generated
		rec.Source = SourceGenerated
	default:
		tlsMaterialTotal.WithLabelValues("conflict").Inc()
		return nil, errors.New(errors.ErrCodeConflictingTLSMaterial,
			"operator supplied part of the tls material set").
			WithContext("app", attrs.Shortname).
			WithContext("fields", strings.Join(missing, ","))
	}

	if err := r.write(rec, material); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to persist tls material", err).
			WithContext("app", attrs.Shortname)
	}

	tlsMaterialTotal.WithLabelValues(string(rec.Source)).Inc()
	slog.Info("tls material written", "app", attrs.Shortname, "source", rec.Source, "path", rec.CertificatePath)
	return &rec, nil
}

func (r *Resolver) hostPath(p string) string {
	return filepath.Join(r.cfg.RootPrefix(), p)
}

func (r *Resolver) allExist(rec Record) bool {
	for _, p := range []string{rec.KeyPath, rec.CertificatePath, rec.ChainPath, rec.DHParamsPath} {
		info, err := os.Stat(r.hostPath(p))
		if err != nil || info.IsDir() || info.Size() == 0 {
			return false
		}
	}
	return true
}

func (r *Resolver) write(rec Record, m Material) error {
	if err := os.MkdirAll(r.hostPath(filepath.Dir(rec.KeyPath)), 0o755); err != nil {
		return fmt.Errorf("failed to create tls directory: %w", err)
	}

	files := []struct {
		path    string
		content string
		mode    os.FileMode
	}{
		{rec.KeyPath, m.PrivateKey, 0o600},
		{rec.CertificatePath, m.Certificate, 0o644},
		{rec.ChainPath, m.Chain, 0o644},
		{rec.DHParamsPath, m.DHParams, 0o644},
	}
	for _, f := range files {
		if err := atomicwriter.WriteFile(r.hostPath(f.path), []byte(f.content), f.mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
	}
	return nil
}
