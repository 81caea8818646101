package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "STACKCONF"

// Setting keys understood by Load. Environment variables use the upper-case
// form with "." replaced by "_", e.g. STACKCONF_PATHS_DEPLOY_BASE.
const (
	KeyDeployBase     = "paths.deploy_base"
	KeyNginxDir       = "paths.nginx_dir"
	KeyTLSDir         = "paths.tls_dir"
	KeyRootPrefix     = "paths.root_prefix"
	KeySystemdUnitDir = "paths.systemd_unit_dir"
	KeyConcurrency    = "host.concurrency"
	KeyParallelism    = "engine.parallelism"
	KeyEnvironments   = "engine.environments"
)

// Load reads engine settings from path (yaml, json or toml, chosen by
// extension) and from STACKCONF_* environment variables, and returns the
// options they imply. An empty path reads the environment only. Settings
// that are absent produce no option, so NewConfig defaults still apply.
func Load(path string) ([]Option, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		KeyDeployBase, KeyNginxDir, KeyTLSDir, KeyRootPrefix, KeySystemdUnitDir,
		KeyConcurrency, KeyParallelism, KeyEnvironments,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var opts []Option
	stringOpts := []struct {
		key string
		fn  func(string) Option
	}{
		{KeyDeployBase, WithDeployBase},
		{KeyNginxDir, WithNginxDir},
		{KeyTLSDir, WithTLSDir},
		{KeyRootPrefix, WithRootPrefix},
		{KeySystemdUnitDir, WithSystemdUnitDir},
	}
	for _, so := range stringOpts {
		if v.IsSet(so.key) {
			opts = append(opts, so.fn(v.GetString(so.key)))
		}
	}

	if v.IsSet(KeyConcurrency) {
		opts = append(opts, WithConcurrency(v.GetInt(KeyConcurrency)))
	}
	if v.IsSet(KeyParallelism) {
		opts = append(opts, WithParallelism(v.GetInt(KeyParallelism)))
	}
	if v.IsSet(KeyEnvironments) {
		opts = append(opts, WithEnvironments(v.GetStringSlice(KeyEnvironments)...))
	}

	return opts, nil
}
