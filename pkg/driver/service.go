package driver

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/unit"
)

// TemplateProvider is implemented by drivers whose artifacts are rendered
// from embedded templates.
type TemplateProvider interface {
	GetTemplate(name string) (string, bool)
}

// UnitOptions describes s as a forking systemd service that delegates every
// lifecycle operation to the control script.
func (s Service) UnitOptions(description string) []*unit.UnitOption {
	if description == "" {
		description = fmt.Sprintf("%s application server", s.Name)
	}
	return []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", description),
		unit.NewUnitOption("Unit", "After", "network.target"),
		unit.NewUnitOption("Service", "Type", "forking"),
		unit.NewUnitOption("Service", "PIDFile", s.PIDFile),
		unit.NewUnitOption("Service", "ExecStart", s.StartCommand),
		unit.NewUnitOption("Service", "ExecStop", s.StopCommand),
		unit.NewUnitOption("Service", "ExecReload", s.RestartCommand),
		unit.NewUnitOption("Service", "Restart", "on-failure"),
		unit.NewUnitOption("Install", "WantedBy", "multi-user.target"),
	}
}
