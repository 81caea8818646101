package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/stackconf/stackconf/pkg/defaults"
)

// Config holds engine settings. It is immutable after NewConfig returns and
// is passed explicitly into every resolver and renderer call.
type Config struct {
	deployBase     string
	nginxDir       string
	tlsDir         string
	rootPrefix     string
	concurrency    int
	parallelism    int
	environments   []string
	systemdUnitDir string
	dryRun         bool
	version        string
}

// Option configures a Config.
type Option func(*Config)

// NewConfig returns a Config with defaults applied, then opts in order.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		deployBase:   defaults.DeployBase,
		nginxDir:     defaults.NginxDir,
		rootPrefix:   defaults.RootPrefix,
		concurrency:  runtime.NumCPU(),
		parallelism:  runtime.NumCPU(),
		environments: slices.Clone(defaults.Environments),
		version:      "dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithDeployBase sets the directory application roots live under.
func WithDeployBase(dir string) Option {
	return func(c *Config) {
		c.deployBase = dir
	}
}

// WithNginxDir sets the nginx configuration directory.
func WithNginxDir(dir string) Option {
	return func(c *Config) {
		c.nginxDir = dir
	}
}

// WithTLSDir sets the directory TLS material is written to.
func WithTLSDir(dir string) Option {
	return func(c *Config) {
		c.tlsDir = dir
	}
}

// WithRootPrefix makes every rendered path relative to dir. Used to render
// into a staging tree or a test directory instead of the live host.
func WithRootPrefix(dir string) Option {
	return func(c *Config) {
		c.rootPrefix = dir
	}
}

// WithConcurrency sets the host concurrency hint used as the default worker count.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.concurrency = n
	}
}

// WithParallelism bounds how many applications are resolved at once.
func WithParallelism(n int) Option {
	return func(c *Config) {
		c.parallelism = n
	}
}

// WithEnvironments sets the environments connection files are fanned out to.
func WithEnvironments(envs ...string) Option {
	return func(c *Config) {
		c.environments = slices.Clone(envs)
	}
}

// WithSystemdUnitDir enables systemd wrapper units, written to dir.
func WithSystemdUnitDir(dir string) Option {
	return func(c *Config) {
		c.systemdUnitDir = dir
	}
}

// WithDryRun reports changes instead of writing them.
func WithDryRun(enabled bool) Option {
	return func(c *Config) {
		c.dryRun = enabled
	}
}

// WithVersion sets the version stamped into rendered artifacts.
func WithVersion(v string) Option {
	return func(c *Config) {
		c.version = v
	}
}

func (c *Config) DeployBase() string { return c.deployBase }
func (c *Config) NginxDir() string   { return c.nginxDir }
func (c *Config) RootPrefix() string { return c.rootPrefix }
func (c *Config) Concurrency() int   { return c.concurrency }
func (c *Config) Parallelism() int   { return c.parallelism }
func (c *Config) DryRun() bool       { return c.dryRun }
func (c *Config) Version() string    { return c.version }

// SystemdUnitDir returns the unit directory, empty when units are disabled.
func (c *Config) SystemdUnitDir() string { return c.systemdUnitDir }

// TLSDir returns the TLS directory, defaulting to <nginx dir>/ssl.
func (c *Config) TLSDir() string {
	if c.tlsDir != "" {
		return c.tlsDir
	}
	return filepath.Join(c.nginxDir, defaults.TLSSubdir)
}

// Environments returns a copy of the fan-out environment list.
func (c *Config) Environments() []string {
	return slices.Clone(c.environments)
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	dirs := []struct{ name, path string }{
		{"deploy base", c.deployBase},
		{"nginx dir", c.nginxDir},
		{"tls dir", c.TLSDir()},
		{"root prefix", c.rootPrefix},
	}
	for _, d := range dirs {
		if !filepath.IsAbs(d.path) {
			return fmt.Errorf("%s must be an absolute path, got %q", d.name, d.path)
		}
	}
	if c.systemdUnitDir != "" && !filepath.IsAbs(c.systemdUnitDir) {
		return fmt.Errorf("systemd unit dir must be an absolute path, got %q", c.systemdUnitDir)
	}
	if c.concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.concurrency)
	}
	if c.parallelism < 1 {
		return fmt.Errorf("parallelism must be positive, got %d", c.parallelism)
	}
	if len(c.environments) == 0 {
		return fmt.Errorf("at least one environment is required")
	}
	seen := make(map[string]bool, len(c.environments))
	for _, env := range c.environments {
		if env == "" {
			return fmt.Errorf("environment names must not be empty")
		}
		if seen[env] {
			return fmt.Errorf("duplicate environment %q", env)
		}
		seen[env] = true
	}
	return nil
}
