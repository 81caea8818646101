// Package driver defines the driver contracts and the Registry that selects
// a driver for each concern of an application.
//
// A driver turns normalized attributes into a Resolved Configuration Mapping
// for one concern (database, application server or web server) and declares
// the host artifacts rendered from that mapping. Drivers are selected by
// discriminator: a lower-case name such as "postgresql", "mysql2" or
// "unicorn". Every driver lists its canonical name first, followed by any
// aliases it also answers to.
//
// # Registry
//
// The Registry is populated once at startup and validated as it is built:
//
//	reg, err := driver.NewRegistry(
//	    database.NewPostgreSQL(),
//	    appserver.NewUnicorn(),
//	    webserver.NewNginx(),
//	)
//	if err != nil {
//	    return err // duplicate discriminator, wrong interface, ...
//	}
//
//	db, err := reg.Database("postgres")
//
// Unknown discriminators fail with UNRESOLVABLE_DRIVER and, when one is
// close enough, a suggestion of the discriminator the operator most likely
// meant.
//
// # Artifacts
//
// Artifacts carry absolute host paths. The render package joins them with
// the configured root prefix, renders templates and writes files atomically.
package driver
