// Package host collects facts about the machine stackconf renders for.
// The facts feed defaults: the CPU count is the concurrency hint behind the
// default worker count, and systemd presence decides whether a configured
// wrapper unit directory is honored.
package host

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"github.com/coreos/go-systemd/v22/util"
)

// Facts describes the host.
type Facts struct {
	Hostname string `json:"hostname" yaml:"hostname"`
	CPUs     int    `json:"cpus" yaml:"cpus"`
	Systemd  bool   `json:"systemd" yaml:"systemd"`
}

// Collector gathers host facts. Implementations must honor ctx cancellation.
type Collector interface {
	Collect(ctx context.Context) (*Facts, error)
}

// LocalCollector reads facts from the running machine.
type LocalCollector struct{}

// Collect implements Collector.
func (LocalCollector) Collect(ctx context.Context) (*Facts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hostname, err := os.Hostname()
	if err != nil {
		slog.Debug("hostname unavailable", "error", err)
		hostname = ""
	}

	f := &Facts{
		Hostname: hostname,
		CPUs:     runtime.NumCPU(),
		Systemd:  util.IsRunningSystemd(),
	}
	slog.Debug("collected host facts", "hostname", f.Hostname, "cpus", f.CPUs, "systemd", f.Systemd)
	return f, nil
}

// StaticCollector returns fixed facts. Useful for fixtures and for
// rendering on behalf of a different host.
type StaticCollector struct {
	Facts Facts
}

// Collect implements Collector.
func (s StaticCollector) Collect(ctx context.Context) (*Facts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := s.Facts
	return &f, nil
}
