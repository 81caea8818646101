package driver

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/stackconf/stackconf/pkg/errors"
)

// Registry maps discriminators to drivers, per concern, with thread-safe
// operations. Registration validates each driver so a misconfigured set
// fails when the registry is built, not on the first application that
// happens to select the broken driver.
type Registry struct {
	drivers map[Concern]map[string]Driver

	mu sync.RWMutex
}

// NewRegistry creates a Registry holding drivers. It fails on the first
// driver that does not validate.
func NewRegistry(drivers ...Driver) (*Registry, error) {
	r := &Registry{
		drivers: make(map[Concern]map[string]Driver, len(SupportedConcerns())),
	}
	for _, d := range drivers {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates d and adds it under each of its discriminators.
func (r *Registry) Register(d Driver) error {
	if err := validateDriver(d); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byName := r.drivers[d.Concern()]
	if byName == nil {
		byName = make(map[string]Driver)
		r.drivers[d.Concern()] = byName
	}
	for _, disc := range d.Discriminators() {
		if existing, ok := byName[disc]; ok {
			return fmt.Errorf("%s discriminator %q registered by both %s and %s",
				d.Concern(), disc, existing.Name(), d.Name())
		}
	}
	for _, disc := range d.Discriminators() {
		byName[disc] = d
	}
	return nil
}

func validateDriver(d Driver) error {
	if d == nil {
		return fmt.Errorf("driver is nil")
	}
	if strings.TrimSpace(d.Name()) == "" {
		return fmt.Errorf("driver has no name")
	}
	if _, err := ParseConcern(string(d.Concern())); err != nil {
		return fmt.Errorf("driver %s: %w", d.Name(), err)
	}

	discs := d.Discriminators()
	if len(discs) == 0 {
		return fmt.Errorf("driver %s declares no discriminators", d.Name())
	}
	if discs[0] != d.Name() {
		return fmt.Errorf("driver %s: first discriminator must be the driver name, got %q", d.Name(), discs[0])
	}
	seen := make(map[string]bool, len(discs))
	for _, disc := range discs {
		if disc == "" || disc != strings.ToLower(disc) {
			return fmt.Errorf("driver %s: discriminator %q must be non-empty lower case", d.Name(), disc)
		}
		if seen[disc] {
			return fmt.Errorf("driver %s: discriminator %q declared twice", d.Name(), disc)
		}
		seen[disc] = true
	}

	var ok bool
	switch d.Concern() {
	case ConcernDatabase:
		_, ok = d.(DatabaseDriver)
	case ConcernAppServer:
		_, ok = d.(AppServerDriver)
	case ConcernWebServer:
		_, ok = d.(WebServerDriver)
	}
	if !ok {
		return fmt.Errorf("driver %s does not implement the %s driver interface", d.Name(), d.Concern())
	}
	return nil
}

// Lookup returns the driver registered for discriminator under concern.
// Unknown discriminators fail with UNRESOLVABLE_DRIVER, suggesting the
// closest known one when there is a plausible match.
func (r *Registry) Lookup(c Concern, discriminator string) (Driver, error) {
	name := strings.ToLower(strings.TrimSpace(discriminator))

	r.mu.RLock()
	d, ok := r.drivers[c][name]
	r.mu.RUnlock()
	if ok {
		return d, nil
	}

	msg := fmt.Sprintf("no %s driver registered for %q", c, discriminator)
	known := r.Discriminators(c)
	if s := suggest(name, known); s != "" {
		msg += fmt.Sprintf(", did you mean %q?", s)
	} else if len(known) > 0 {
		msg += fmt.Sprintf(", supported: %s", strings.Join(known, ", "))
	}
	return nil, errors.New(errors.ErrCodeUnresolvableDriver, msg).
		WithContext("concern", string(c)).
		WithContext("field", "adapter")
}

// Database looks up a database driver.
func (r *Registry) Database(discriminator string) (DatabaseDriver, error) {
	d, err := r.Lookup(ConcernDatabase, discriminator)
	if err != nil {
		return nil, err
	}
	return d.(DatabaseDriver), nil
}

// AppServer looks up an application server driver.
func (r *Registry) AppServer(discriminator string) (AppServerDriver, error) {
	d, err := r.Lookup(ConcernAppServer, discriminator)
	if err != nil {
		return nil, err
	}
	return d.(AppServerDriver), nil
}

// WebServer looks up a web server driver.
func (r *Registry) WebServer(discriminator string) (WebServerDriver, error) {
	d, err := r.Lookup(ConcernWebServer, discriminator)
	if err != nil {
		return nil, err
	}
	return d.(WebServerDriver), nil
}

// List returns the distinct drivers registered for c, sorted by name.
func (r *Registry) List(c Concern) []Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	drivers := make([]Driver, 0, len(r.drivers[c]))
	for _, d := range r.drivers[c] {
		if seen[d.Name()] {
			continue
		}
		seen[d.Name()] = true
		drivers = append(drivers, d)
	}
	sort.Slice(drivers, func(i, j int) bool {
		return drivers[i].Name() < drivers[j].Name()
	})
	return drivers
}

// Discriminators returns every discriminator registered for c, sorted.
func (r *Registry) Discriminators(c Concern) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.drivers[c]))
	for name := range r.drivers[c] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes the driver named name, with all its discriminators.
func (r *Registry) Unregister(c Concern, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := false
	for disc, d := range r.drivers[c] {
		if d.Name() == name {
			delete(r.drivers[c], disc)
			removed = true
		}
	}
	if !removed {
		return fmt.Errorf("%s driver %s not registered", c, name)
	}
	return nil
}

// Count returns the number of distinct drivers across all concerns.
func (r *Registry) Count() int {
	total := 0
	for _, c := range SupportedConcerns() {
		total += len(r.List(c))
	}
	return total
}

// IsEmpty returns true if no drivers are registered.
func (r *Registry) IsEmpty() bool {
	return r.Count() == 0
}

// suggest returns the candidate closest to name when it is within a third
// of name's length (at least two edits), or "" when nothing is close.
func suggest(name string, candidates []string) string {
	if name == "" {
		return ""
	}
	maxDist := max(2, len(name)/3)
	best, bestDist := "", maxDist+1
	for _, c := range slices.Sorted(slices.Values(candidates)) {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Info describes one registered driver.
type Info struct {
	Concern        Concern  `json:"concern" yaml:"concern"`
	Name           string   `json:"name" yaml:"name"`
	Discriminators []string `json:"discriminators" yaml:"discriminators"`
}

// Describe lists every registered driver in concern order, then by name.
func (r *Registry) Describe() []Info {
	var out []Info
	for _, c := range SupportedConcerns() {
		for _, d := range r.List(c) {
			out = append(out, Info{Concern: c, Name: d.Name(), Discriminators: d.Discriminators()})
		}
	}
	return out
}
