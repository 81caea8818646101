package engine

import (
	"slices"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/stackconf/stackconf/pkg/attributes"
	"github.com/stackconf/stackconf/pkg/descriptor"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/errors"
	"github.com/stackconf/stackconf/pkg/header"
	"github.com/stackconf/stackconf/pkg/mapping"
	"github.com/stackconf/stackconf/pkg/tlsmaterial"
)

// Resolution is one driver's output for one concern.
type Resolution struct {
	Concern    driver.Concern    `json:"concern" yaml:"concern"`
	DriverName string            `json:"driver" yaml:"driver"`
	Mapping    *mapping.Mapping  `json:"mapping" yaml:"mapping"`
	Artifacts  []driver.Artifact `json:"artifacts" yaml:"artifacts"`

	// Driver is the driver that produced Mapping.
	Driver driver.Driver `json:"-" yaml:"-"`
}

// Failure is the serializable form of a concern error.
type Failure struct {
	Concern driver.Concern   `json:"concern" yaml:"concern"`
	Code    errors.ErrorCode `json:"code" yaml:"code"`
	Message string           `json:"message" yaml:"message"`
}

// AppPlan is the resolution of one application.
type AppPlan struct {
	Shortname  string                 `json:"shortname" yaml:"shortname"`
	Attributes *attributes.Attributes `json:"attributes" yaml:"attributes"`
	Database   *Resolution            `json:"database,omitempty" yaml:"database,omitempty"`
	AppServer  *Resolution            `json:"appserver,omitempty" yaml:"appserver,omitempty"`
	WebServer  *Resolution            `json:"webserver,omitempty" yaml:"webserver,omitempty"`
	TLS        tlsmaterial.Record     `json:"tls" yaml:"tls"`
	Service    *driver.Service        `json:"service,omitempty" yaml:"service,omitempty"`
	Failures   []Failure              `json:"failures,omitempty" yaml:"failures,omitempty"`

	// Application is the descriptor the plan was built from.
	Application *descriptor.Application `json:"-" yaml:"-"`

	errs map[driver.Concern]error
}

func newAppPlan(app *descriptor.Application) *AppPlan {
	return &AppPlan{
		Shortname:   app.Shortname,
		Application: app,
		errs:        make(map[driver.Concern]error),
	}
}

func (p *AppPlan) fail(c driver.Concern, err error) {
	p.errs[c] = err
	p.Failures = append(p.Failures, Failure{
		Concern: c,
		Code:    errors.CodeOf(err),
		Message: err.Error(),
	})
}

// Resolution returns the resolution for c, nil when it failed.
func (p *AppPlan) Resolution(c driver.Concern) *Resolution {
	switch c {
	case driver.ConcernDatabase:
		return p.Database
	case driver.ConcernAppServer:
		return p.AppServer
	case driver.ConcernWebServer:
		return p.WebServer
	default:
		return nil
	}
}

// Resolutions returns the successful resolutions in concern order.
func (p *AppPlan) Resolutions() []*Resolution {
	var out []*Resolution
	for _, c := range driver.SupportedConcerns() {
		if r := p.Resolution(c); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// ConcernErr returns the error recorded for c.
func (p *AppPlan) ConcernErr(c driver.Concern) error {
	return p.errs[c]
}

// Failed reports whether any concern failed.
func (p *AppPlan) Failed() bool {
	return len(p.errs) > 0
}

// Err aggregates the concern errors in concern order, nil when none failed.
func (p *AppPlan) Err() error {
	var result *multierror.Error
	for _, c := range driver.SupportedConcerns() {
		if err, ok := p.errs[c]; ok {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// PlanKind is the header kind of a serialized Plan.
const PlanKind = "Plan"

// Plan is the resolution of a whole inventory, sorted by shortname.
type Plan struct {
	header.Header `yaml:",inline"`

	Apps []*AppPlan `json:"applications" yaml:"applications"`
}

func newPlan(apps []*AppPlan, version string) *Plan {
	sorted := slices.Clone(apps)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Shortname < sorted[j].Shortname
	})
	return &Plan{
		Header: header.New(PlanKind, header.WithVersion(version)),
		Apps:   sorted,
	}
}

// App returns the plan for shortname.
func (p *Plan) App(shortname string) (*AppPlan, bool) {
	for _, a := range p.Apps {
		if a.Shortname == shortname {
			return a, true
		}
	}
	return nil, false
}

// Failed returns the shortnames of applications with at least one failed
// concern.
func (p *Plan) Failed() []string {
	var out []string
	for _, a := range p.Apps {
		if a.Failed() {
			out = append(out, a.Shortname)
		}
	}
	return out
}

// Err aggregates every application's errors, nil when all succeeded.
func (p *Plan) Err() error {
	var result *multierror.Error
	for _, a := range p.Apps {
		if err := a.Err(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
