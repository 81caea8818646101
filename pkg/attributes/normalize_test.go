package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/descriptor"
)

func fixtureApp() *descriptor.Application {
	return &descriptor.Application{
		Shortname:   "dummy_project",
		Name:        "Dummy Project",
		Domains:     []string{"dummy-project.example.com", "www.dummy-project.example.com"},
		Environment: map[string]string{"ENV_VAR1": "test", "ENV_VAR2": "some data"},
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := config.NewConfig(config.WithConcurrency(4))

	attrs := Normalize(fixtureApp(), nil, cfg)

	assert.Equal(t, "dummy_project", attrs.Shortname)
	assert.Equal(t, "/srv/www/dummy_project", attrs.DeployRoot)
	assert.Equal(t, "production", attrs.Environment)
	assert.Equal(t, "public", attrs.DocumentRoot)
	assert.Equal(t, "dummy-project.example.com", attrs.FirstDomain())

	assert.Equal(t, "unicorn", attrs.AppServer.Name)
	assert.Equal(t, 4, attrs.AppServer.Workers)
	assert.Equal(t, 50, attrs.AppServer.Timeout)
	assert.Equal(t, 0.5, attrs.AppServer.Delay)
	assert.True(t, attrs.AppServer.PreloadApp)

	assert.Equal(t, "nginx", attrs.WebServer.Name)
	assert.Equal(t, "125m", attrs.WebServer.ClientMaxBodySize)
	assert.Equal(t, 15, attrs.WebServer.KeepaliveTimeout)
	assert.False(t, attrs.WebServer.SSLForLegacyBrowsers)
	assert.Nil(t, attrs.WebServer.SessionTickets)

	assert.Empty(t, attrs.Database.Adapter)
	assert.NotNil(t, attrs.Database.Settings)

	assert.Equal(t, []EnvVar{
		{Key: "ENV_VAR1", Value: "test"},
		{Key: "ENV_VAR2", Value: "some data"},
	}, attrs.EnvVars)
}

func TestNormalize_Overrides(t *testing.T) {
	cfg := config.NewConfig(config.WithConcurrency(2))
	overrides := descriptor.Tree{
		"global": map[string]any{
			"environment": "staging",
			"deploy_to":   "/opt/apps/dummy",
		},
		"appserver": map[string]any{
			"adapter":          "Puma",
			"worker_processes": "6",
			"delay":            3,
			"preload_app":      "false",
			"thread_max":       "8",
		},
		"webserver": map[string]any{
			"keepalive_timeout":       "30",
			"ssl_for_legacy_browsers": true,
			"ssl_session_tickets":     "off",
			"unknown_future_key":      []any{1, 2},
		},
		"database": map[string]any{
			"adapter":  "PostgreSQL",
			"username": "deploy",
		},
		"environment_variables": map[string]any{
			"ENV_VAR1": "overridden",
			"RETRIES":  3,
		},
		"ssl": map[string]any{"dhparams": "--- DH PARAMS ---"},
	}

	attrs := Normalize(fixtureApp(), overrides, cfg)

	assert.Equal(t, "staging", attrs.Environment)
	assert.Equal(t, "/opt/apps/dummy", attrs.DeployRoot)
	assert.Equal(t, "puma", attrs.AppServer.Name)
	assert.Equal(t, 6, attrs.AppServer.Workers)
	assert.Equal(t, 3.0, attrs.AppServer.Delay)
	assert.False(t, attrs.AppServer.PreloadApp)
	assert.Equal(t, 8, attrs.AppServer.ThreadsMax)
	assert.Equal(t, 30, attrs.WebServer.KeepaliveTimeout)
	assert.True(t, attrs.WebServer.SSLForLegacyBrowsers)
	require.NotNil(t, attrs.WebServer.SessionTickets)
	assert.False(t, *attrs.WebServer.SessionTickets)
	assert.Equal(t, "postgresql", attrs.Database.Adapter)
	assert.Equal(t, "deploy", attrs.Database.Settings["username"])
	assert.Equal(t, "--- DH PARAMS ---", attrs.DHParams)
	assert.Equal(t, []EnvVar{
		{Key: "ENV_VAR1", Value: "overridden"},
		{Key: "ENV_VAR2", Value: "some data"},
		{Key: "RETRIES", Value: "3"},
	}, attrs.EnvVars)
}

func TestNormalize_InvalidValuesFallBack(t *testing.T) {
	cfg := config.NewConfig(config.WithConcurrency(4))
	overrides := descriptor.Tree{
		"global":    map[string]any{"deploy_to": "relative/path"},
		"appserver": map[string]any{"worker_processes": "many", "timeout": -5},
		"webserver": map[string]any{"keepalive_timeout": map[string]any{"x": 1}, "ssl_for_legacy_browsers": "maybe"},
		"database":  "not a map",
	}

	attrs := Normalize(fixtureApp(), overrides, cfg)

	assert.Equal(t, "/srv/www/dummy_project", attrs.DeployRoot)
	assert.Equal(t, 4, attrs.AppServer.Workers)
	assert.Equal(t, 50, attrs.AppServer.Timeout)
	assert.Equal(t, 15, attrs.WebServer.KeepaliveTimeout)
	assert.False(t, attrs.WebServer.SSLForLegacyBrowsers)
	assert.NotNil(t, attrs.Database.Settings)
	assert.Empty(t, attrs.Database.Settings)
}

func TestNormalize_DropsInvalidEnvNames(t *testing.T) {
	app := fixtureApp()
	app.Environment = map[string]string{
		"FOO;touch /tmp/pwned;X": "v",
		"it's":                   "q",
		"9LIVES":                 "x",
		"_PRIVATE":               "kept",
		"ENV_VAR1":               "test",
	}
	overrides := descriptor.Tree{
		"environment": map[string]any{"$(id)": "y", "RETRIES": 3},
	}

	attrs := Normalize(app, overrides, config.NewConfig())

	assert.Equal(t, []EnvVar{
		{Key: "ENV_VAR1", Value: "test"},
		{Key: "RETRIES", Value: "3"},
		{Key: "_PRIVATE", Value: "kept"},
	}, attrs.EnvVars)
}

func TestNormalize_NoDomainsFallsBackToShortname(t *testing.T) {
	app := &descriptor.Application{Shortname: "worker", Domains: []string{" ", ""}}
	attrs := Normalize(app, nil, config.NewConfig())
	assert.Equal(t, []string{"worker"}, attrs.Domains)
}

func TestNormalize_NeverFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hint := rapid.IntRange(1, 256).Draw(t, "hint")
		value := rapid.OneOf(
			rapid.Just[any](nil),
			rapid.Map(rapid.Int(), func(i int) any { return i }),
			rapid.Map(rapid.String(), func(s string) any { return s }),
			rapid.Map(rapid.Bool(), func(b bool) any { return b }),
			rapid.Map(rapid.Float64(), func(f float64) any { return f }),
		).Draw(t, "value")
		key := rapid.SampledFrom([]string{
			"worker_processes", "timeout", "delay", "keepalive_timeout",
			"ssl_for_legacy_browsers", "client_max_body_size", "adapter",
		}).Draw(t, "key")
		section := rapid.SampledFrom([]string{"appserver", "webserver", "database", "global"}).Draw(t, "section")

		overrides := descriptor.Tree{section: map[string]any{key: value}}
		attrs := Normalize(fixtureApp(), overrides, config.NewConfig(config.WithConcurrency(hint)))

		if attrs.AppServer.Workers < 1 {
			t.Fatalf("workers = %d, want positive", attrs.AppServer.Workers)
		}
		if attrs.WebServer.KeepaliveTimeout < 1 {
			t.Fatalf("keepalive_timeout = %d, want positive", attrs.WebServer.KeepaliveTimeout)
		}
		if attrs.WebServer.ClientMaxBodySize == "" {
			t.Fatal("client_max_body_size is empty")
		}
		if attrs.Database.Settings == nil {
			t.Fatal("database settings is nil")
		}
	})
}
