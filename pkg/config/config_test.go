package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.DeployBase() != "/srv/www" {
		t.Errorf("DeployBase() = %s, want /srv/www", cfg.DeployBase())
	}
	if cfg.NginxDir() != "/etc/nginx" {
		t.Errorf("NginxDir() = %s, want /etc/nginx", cfg.NginxDir())
	}
	if cfg.TLSDir() != "/etc/nginx/ssl" {
		t.Errorf("TLSDir() = %s, want /etc/nginx/ssl", cfg.TLSDir())
	}
	if cfg.Concurrency() != runtime.NumCPU() {
		t.Errorf("Concurrency() = %d, want %d", cfg.Concurrency(), runtime.NumCPU())
	}
	if cfg.SystemdUnitDir() != "" {
		t.Errorf("SystemdUnitDir() = %s, want empty", cfg.SystemdUnitDir())
	}
	assert.Equal(t, []string{"development", "production"}, cfg.Environments())
}

func TestConfigImmutability(t *testing.T) {
	envs := []string{"staging"}
	cfg := NewConfig(WithEnvironments(envs...))

	envs[0] = "mutated"
	got := cfg.Environments()
	got[0] = "mutated again"

	assert.Equal(t, []string{"staging"}, cfg.Environments())
}

func TestConfigTLSDirOverride(t *testing.T) {
	cfg := NewConfig(WithNginxDir("/opt/nginx"))
	assert.Equal(t, "/opt/nginx/ssl", cfg.TLSDir())

	cfg = NewConfig(WithTLSDir("/etc/ssl/apps"))
	assert.Equal(t, "/etc/ssl/apps", cfg.TLSDir())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid default config",
			config:  NewConfig(),
			wantErr: false,
		},
		{
			name:    "relative deploy base",
			config:  NewConfig(WithDeployBase("srv/www")),
			wantErr: true,
		},
		{
			name:    "relative systemd unit dir",
			config:  NewConfig(WithSystemdUnitDir("units")),
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			config:  NewConfig(WithConcurrency(0)),
			wantErr: true,
		},
		{
			name:    "zero parallelism",
			config:  NewConfig(WithParallelism(0)),
			wantErr: true,
		},
		{
			name:    "no environments",
			config:  NewConfig(WithEnvironments()),
			wantErr: true,
		},
		{
			name:    "duplicate environments",
			config:  NewConfig(WithEnvironments("production", "production")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stackconf.yaml")
	content := `paths:
  deploy_base: /var/apps
  nginx_dir: /opt/nginx
host:
  concurrency: 8
engine:
  environments:
    - staging
    - production
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	opts, err := Load(path)
	require.NoError(t, err)

	cfg := NewConfig(opts...)
	assert.Equal(t, "/var/apps", cfg.DeployBase())
	assert.Equal(t, "/opt/nginx", cfg.NginxDir())
	assert.Equal(t, 8, cfg.Concurrency())
	assert.Equal(t, []string{"staging", "production"}, cfg.Environments())
	assert.Equal(t, "/", cfg.RootPrefix())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stackconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host:\n  concurrency: 8\n"), 0o600))
	t.Setenv("STACKCONF_HOST_CONCURRENCY", "3")

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, NewConfig(opts...).Concurrency())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
