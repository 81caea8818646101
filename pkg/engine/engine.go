package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stackconf/stackconf/pkg/attributes"
	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/descriptor"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/driver/database"
	"github.com/stackconf/stackconf/pkg/errors"
	"github.com/stackconf/stackconf/pkg/tlsmaterial"
)

// Engine resolves inventories against a driver registry.
type Engine struct {
	cfg      *config.Config
	registry *driver.Registry
	apps     []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithApplications limits resolution to the given shortnames.
func WithApplications(shortnames ...string) Option {
	return func(e *Engine) {
		e.apps = append(e.apps, shortnames...)
	}
}

// New creates an Engine.
func New(cfg *config.Config, registry *driver.Registry, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, registry: registry}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve resolves every selected application of inv in parallel. The
// returned error covers only an invalid inventory, an unknown selected
// application or a canceled context; per-application failures are recorded
// in the plan.
func (e *Engine) Resolve(ctx context.Context, inv *descriptor.Inventory) (*Plan, error) {
	start := time.Now()
	defer func() {
		resolveDuration.Observe(time.Since(start).Seconds())
	}()

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	apps, err := e.selected(inv)
	if err != nil {
		return nil, err
	}

	slog.Debug("resolving inventory", "applications", len(apps), "parallelism", e.cfg.Parallelism())

	var mu sync.Mutex
	plans := make([]*AppPlan, 0, len(apps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Parallelism())
	for _, app := range apps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Wrap(errors.ErrCodeTimeout, "resolution canceled", err)
			}
			p := e.ResolveApp(gctx, inv, app)
			mu.Lock()
			plans = append(plans, p)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan := newPlan(plans, e.cfg.Version())
	slog.Info("inventory resolved",
		"applications", len(plan.Apps),
		"failed", len(plan.Failed()),
		"duration", time.Since(start))
	return plan, nil
}

func (e *Engine) selected(inv *descriptor.Inventory) ([]*descriptor.Application, error) {
	if len(e.apps) == 0 {
		out := make([]*descriptor.Application, 0, len(inv.Applications))
		for i := range inv.Applications {
			out = append(out, &inv.Applications[i])
		}
		return out, nil
	}

	out := make([]*descriptor.Application, 0, len(e.apps))
	for _, name := range e.apps {
		app, ok := inv.Application(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "application not in inventory").
				WithContext("app", name)
		}
		out = append(out, app)
	}
	return out, nil
}

// ResolveApp resolves each concern of app independently.
func (e *Engine) ResolveApp(_ context.Context, inv *descriptor.Inventory, app *descriptor.Application) *AppPlan {
	p := newAppPlan(app)
	p.Attributes = attributes.Normalize(app, inv.Overrides(app.Shortname), e.cfg)
	p.TLS = tlsmaterial.Paths(e.cfg, p.Attributes)

	p.Database = e.record(p, driver.ConcernDatabase, func() (*Resolution, error) {
		return e.resolveDatabase(p.Attributes, inv.LinkedStore(app))
	})
	p.AppServer = e.record(p, driver.ConcernAppServer, func() (*Resolution, error) {
		r, svc, err := e.resolveAppServer(p.Attributes)
		if err == nil {
			p.Service = svc
		}
		return r, err
	})
	p.WebServer = e.record(p, driver.ConcernWebServer, func() (*Resolution, error) {
		return e.resolveWebServer(p.Attributes, p.TLS)
	})

	return p
}

// record runs fn and files its result or error under concern c.
func (e *Engine) record(p *AppPlan, c driver.Concern, fn func() (*Resolution, error)) *Resolution {
	r, err := fn()
	if err != nil {
		err = withScope(err, p.Shortname, c)
		p.fail(c, err)
		resolveTotal.WithLabelValues(string(c), "error").Inc()

		if errors.IsCode(err, errors.ErrCodeMissingRequiredKey) {
			slog.Error("driver produced an incomplete mapping", "app", p.Shortname, "concern", c, "error", err)
		} else {
			slog.Warn("concern not resolved", "app", p.Shortname, "concern", c, "error", err)
		}
		return nil
	}

	resolveTotal.WithLabelValues(string(c), "success").Inc()
	slog.Debug("concern resolved", "app", p.Shortname, "concern", c, "driver", r.DriverName)
	return r
}

func (e *Engine) resolveDatabase(attrs *attributes.Attributes, store *descriptor.DataStore) (*Resolution, error) {
	disc, err := database.Select(attrs, store)
	if err != nil {
		return nil, err
	}
	d, err := e.registry.Database(disc)
	if err != nil {
		return nil, err
	}
	m, err := d.Resolve(attrs, store)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Concern:    driver.ConcernDatabase,
		DriverName: d.Name(),
		Mapping:    m,
		Artifacts:  d.Artifacts(attrs, m, e.cfg),
		Driver:     d,
	}, nil
}

func (e *Engine) resolveAppServer(attrs *attributes.Attributes) (*Resolution, *driver.Service, error) {
	d, err := e.registry.AppServer(attrs.AppServer.Name)
	if err != nil {
		return nil, nil, err
	}
	m, err := d.Resolve(attrs, e.cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := d.Service(m)
	return &Resolution{
		Concern:    driver.ConcernAppServer,
		DriverName: d.Name(),
		Mapping:    m,
		Artifacts:  d.Artifacts(attrs, m, e.cfg),
		Driver:     d,
	}, &svc, nil
}

func (e *Engine) resolveWebServer(attrs *attributes.Attributes, tls tlsmaterial.Record) (*Resolution, error) {
	d, err := e.registry.WebServer(attrs.WebServer.Name)
	if err != nil {
		return nil, err
	}
	m, err := d.Resolve(attrs, tls.TLSPaths(), e.cfg)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Concern:    driver.ConcernWebServer,
		DriverName: d.Name(),
		Mapping:    m,
		Artifacts:  d.Artifacts(attrs, m, e.cfg),
		Driver:     d,
	}, nil
}

// withScope tags err with the application and concern. Unstructured errors
// are wrapped as internal failures.
func withScope(err error, app string, c driver.Concern) error {
	var se *errors.StructuredError
	if !errors.As(err, &se) {
		se = errors.Wrap(errors.ErrCodeInternal, "driver failed", err)
	}
	return se.WithContext("app", app).WithContext("concern", string(c))
}
