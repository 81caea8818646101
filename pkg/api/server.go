// Package api serves stackconf resolution over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/driver/builtin"
	"github.com/stackconf/stackconf/pkg/logging"
	"github.com/stackconf/stackconf/pkg/server"
)

const (
	name           = "stackconf-api-server"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags, e.g.
	// -X "github.com/stackconf/stackconf/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Routes served by the API.
const (
	RouteResolve = "/v1/resolve"
	RouteDrivers = "/v1/drivers"
)

// Serve starts the API server on port (0 keeps the default or $PORT) and
// blocks until ctx is canceled or the process is signaled. A nil cfg uses
// the defaults.
func Serve(ctx context.Context, port int, cfg *config.Config) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	registry, err := builtin.NewRegistry()
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}
	h := NewHandler(cfg, registry)

	srvCfg := server.DefaultConfig()
	if port > 0 {
		srvCfg.Port = port
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithConfig(srvCfg),
		server.WithHandler(map[string]http.HandlerFunc{
			RouteResolve: h.HandleResolve,
			RouteDrivers: h.HandleDrivers,
		}),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}
