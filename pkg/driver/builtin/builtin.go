// Package builtin assembles the registry of every driver shipped with
// stackconf.
package builtin

import (
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/driver/appserver"
	"github.com/stackconf/stackconf/pkg/driver/database"
	"github.com/stackconf/stackconf/pkg/driver/webserver"
)

// Drivers returns every built-in driver, database drivers first.
func Drivers() []driver.Driver {
	var all []driver.Driver
	all = append(all, database.Drivers()...)
	all = append(all, appserver.Drivers()...)
	all = append(all, webserver.Drivers()...)
	return all
}

// NewRegistry returns a validated registry of the built-in drivers.
func NewRegistry() (*driver.Registry, error) {
	return driver.NewRegistry(Drivers()...)
}
