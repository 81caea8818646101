package descriptor

import (
	"fmt"
	"strings"

	"github.com/stackconf/stackconf/pkg/errors"
)

// Inventory is the complete input to one engine run: the applications, the
// data stores they may link to and the host's override tree.
type Inventory struct {
	Applications []Application `json:"applications" yaml:"applications"`
	DataStores   []DataStore   `json:"rds_db_instances,omitempty" yaml:"rds_db_instances,omitempty"`
	// Deploy is keyed by application shortname.
	Deploy Tree `json:"deploy,omitempty" yaml:"deploy,omitempty"`
}

// Validate rejects inventories whose applications cannot be resolved into
// disjoint output paths: shortnames must be unique path segments, and
// applications with SSL enabled must not share the first domain that names
// their TLS files.
func (inv *Inventory) Validate() error {
	if inv == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "inventory is nil")
	}
	seen := make(map[string]bool, len(inv.Applications))
	tlsOwners := make(map[string]string, len(inv.Applications))
	for i, app := range inv.Applications {
		name := strings.TrimSpace(app.Shortname)
		if name == "" {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("application at index %d has no shortname", i)).
				WithContext("field", "shortname")
		}
		if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
			return errors.New(errors.ErrCodeInvalidRequest, "shortname must be a single path segment").
				WithContext("app", name)
		}
		if seen[name] {
			return errors.New(errors.ErrCodeInvalidRequest, "duplicate application shortname").
				WithContext("app", name)
		}
		seen[name] = true

		if !app.EnableSSL {
			continue
		}
		domain := app.FirstDomain()
		if owner, ok := tlsOwners[domain]; ok {
			return errors.New(errors.ErrCodeInvalidRequest,
				"applications with ssl enabled share a first domain and would share tls files").
				WithContext("app", name).
				WithContext("domain", domain).
				WithContext("conflicts_with", owner)
		}
		tlsOwners[domain] = name
	}
	return nil
}

// Application returns the application with the given shortname.
func (inv *Inventory) Application(shortname string) (*Application, bool) {
	for i := range inv.Applications {
		if inv.Applications[i].Shortname == shortname {
			return &inv.Applications[i], true
		}
	}
	return nil, false
}

// LinkedStore returns the first data store whose ARN matches one of app's
// data sources, or nil when the application is not linked to any store.
func (inv *Inventory) LinkedStore(app *Application) *DataStore {
	for _, src := range app.DataSources {
		if src.ARN == "" {
			continue
		}
		for i := range inv.DataStores {
			if inv.DataStores[i].ARN == src.ARN {
				return &inv.DataStores[i]
			}
		}
	}
	return nil
}

// Overrides returns deploy.<shortname>, empty when the host has none.
func (inv *Inventory) Overrides(shortname string) Tree {
	return inv.Deploy.Sub(shortname)
}

// Shortnames returns application shortnames in inventory order.
func (inv *Inventory) Shortnames() []string {
	names := make([]string, 0, len(inv.Applications))
	for _, app := range inv.Applications {
		names = append(names, app.Shortname)
	}
	return names
}
