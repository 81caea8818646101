package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/coreos/go-systemd/v22/unit"
	"gopkg.in/yaml.v3"

	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/engine"
	"github.com/stackconf/stackconf/pkg/mapping"
	"github.com/stackconf/stackconf/pkg/tlsmaterial"
)

// Applier turns a resolved plan into files on the host.
type Applier struct {
	cfg   *config.Config
	tls   *tlsmaterial.Resolver
	diffs io.Writer
}

// ApplierOption configures an Applier.
type ApplierOption func(*Applier)

// WithTLSResolver replaces the default TLS resolver.
func WithTLSResolver(r *tlsmaterial.Resolver) ApplierOption {
	return func(a *Applier) {
		a.tls = r
	}
}

// WithDiffOutput sets where dry-run diffs are printed. It has no effect
// unless the config enables dry-run.
func WithDiffOutput(w io.Writer) ApplierOption {
	return func(a *Applier) {
		a.diffs = w
	}
}

// NewApplier creates an Applier writing beneath cfg.RootPrefix().
func NewApplier(cfg *config.Config, opts ...ApplierOption) *Applier {
	a := &Applier{
		cfg:   cfg,
		diffs: os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tls == nil {
		a.tls = tlsmaterial.NewResolver(cfg)
	}
	return a
}

// Apply renders every application in plan. Failures are recorded per
// application; the error is non-nil only when ctx is canceled.
func (a *Applier) Apply(ctx context.Context, plan *engine.Plan) (*Output, error) {
	start := time.Now()
	out := &Output{DryRun: a.cfg.DryRun()}
	checker := NewContextChecker()

	for _, app := range plan.Apps {
		if err := checker.Check(ctx); err != nil {
			out.TotalDuration = time.Since(start)
			return out, fmt.Errorf("apply canceled: %w", err)
		}
		out.Add(a.ApplyApp(ctx, app))
	}

	out.TotalDuration = time.Since(start)
	slog.Info("plan applied",
		"applications", len(out.Results),
		"files", out.TotalFiles,
		"failed", out.FailureCount(),
		"dry_run", out.DryRun)
	return out, nil
}

// ApplyApp renders one application. Concerns that failed to resolve are
// reported and skipped; the rest are rendered in full.
func (a *Applier) ApplyApp(ctx context.Context, app *engine.AppPlan) *Result {
	start := time.Now()
	res := NewResult(app.Shortname)
	defer func() {
		res.Duration = time.Since(start)
	}()

	var opts []WriterOption
	if a.cfg.DryRun() {
		opts = append(opts, WithDryRun(a.diffs))
	}
	w := NewFileWriter(a.cfg.RootPrefix(), res, opts...)

	for _, f := range app.Failures {
		res.AddError(app.ConcernErr(f.Concern))
	}

	if err := NewDirectoryManager(w).CreateDirectories(SharedDirectories(app.Attributes.DeployRoot), 0o755); err != nil {
		res.AddError(err)
		return res
	}

	for _, r := range app.Resolutions() {
		if r.Concern == driver.ConcernWebServer && app.Attributes.EnableSSL {
			if err := a.persistTLS(ctx, app); err != nil {
				res.AddError(err)
				slog.Warn("skipping web server artifacts", "app", app.Shortname, "error", err)
				continue
			}
		}
		for _, art := range r.Artifacts {
			if err := a.renderArtifact(w, app, r, art); err != nil {
				res.AddError(fmt.Errorf("%s %s: %w", app.Shortname, art.Path, err))
				slog.Error("failed to render artifact",
					"app", app.Shortname, "concern", r.Concern, "path", art.Path, "error", err)
			}
		}
	}

	if len(res.Errors) == 0 {
		res.MarkSuccess()
	}
	return res
}

func (a *Applier) persistTLS(ctx context.Context, app *engine.AppPlan) error {
	if a.cfg.DryRun() {
		slog.Debug("dry run, tls material not persisted", "app", app.Shortname)
		return nil
	}
	_, err := a.tls.Resolve(ctx, app.Attributes, tlsmaterial.Supplied(app.Application, app.Attributes))
	return err
}

func (a *Applier) renderArtifact(w *FileWriter, app *engine.AppPlan, r *engine.Resolution, art driver.Artifact) error {
	mode := art.Mode
	if mode == 0 {
		mode = 0o644
	}

	switch art.Kind {
	case driver.ArtifactTemplate:
		provider, ok := r.Driver.(driver.TemplateProvider)
		if !ok {
			return fmt.Errorf("driver %s has no templates", r.DriverName)
		}
		content, err := NewTemplateRenderer(provider.GetTemplate).Render(art.Template, r.Mapping.ToMap())
		if err != nil {
			return err
		}
		return w.WriteFileString(art.Path, content, mode)

	case driver.ArtifactEnvironments:
		content, err := yaml.Marshal(mapping.Environments(r.Mapping, a.cfg.Environments()))
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", art.Path, err)
		}
		return w.WriteFile(art.Path, content, mode)

	case driver.ArtifactSystemdUnit:
		if app.Service == nil {
			return fmt.Errorf("no service defined")
		}
		content, err := io.ReadAll(unit.Serialize(app.Service.UnitOptions("")))
		if err != nil {
			return fmt.Errorf("failed to serialize unit: %w", err)
		}
		return w.WriteFile(art.Path, content, mode)

	case driver.ArtifactSymlink:
		return w.Symlink(art.Path, art.Target)

	default:
		return fmt.Errorf("unknown artifact kind %q", art.Kind)
	}
}
