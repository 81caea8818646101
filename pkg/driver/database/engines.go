package database

import (
	"github.com/stackconf/stackconf/pkg/defaults"
	"github.com/stackconf/stackconf/pkg/descriptor"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/mapping"
)

// relationalPool leaves headroom above one connection per worker for
// background threads and console sessions.
func relationalPool(workers int) int {
	return workers + defaults.DatabasePoolHeadroom
}

// NewPostgreSQL returns the PostgreSQL driver.
func NewPostgreSQL() driver.DatabaseDriver {
	return &engine{
		name:           "postgresql",
		discriminators: []string{"postgresql", "postgres", "aurora-postgresql"},
		adapter:        "postgresql",
		defaultPort:    5432,
		defaultTimeout: defaults.DatabaseTimeoutMS,
		configFile:     "database.yml",
		pool:           relationalPool,
		extras: func(b *mapping.Builder, settings descriptor.Tree) {
			b.Set("encoding", firstNonEmpty(settingString(settings, "encoding"), "unicode"))
			if mode := settingString(settings, "sslmode"); mode != "" {
				b.Set("sslmode", mode)
			}
		},
	}
}

// NewMySQL returns the MySQL driver. It also serves MariaDB and Aurora.
func NewMySQL() driver.DatabaseDriver {
	return &engine{
		name:           "mysql",
		discriminators: []string{"mysql", "mysql2", "mariadb", "aurora", "aurora-mysql"},
		adapter:        "mysql2",
		defaultPort:    3306,
		defaultTimeout: defaults.DatabaseTimeoutMS,
		configFile:     "database.yml",
		pool:           relationalPool,
		extras: func(b *mapping.Builder, settings descriptor.Tree) {
			b.Set("encoding", firstNonEmpty(settingString(settings, "encoding"), "utf8mb4"))
			b.Set("reconnect", true)
			if collation := settingString(settings, "collation"); collation != "" {
				b.Set("collation", collation)
			}
		},
	}
}

// NewMongoDB returns the MongoDB driver. It also serves DocumentDB. Timeout
// is the connect timeout in seconds.
func NewMongoDB() driver.DatabaseDriver {
	return &engine{
		name:           "mongodb",
		discriminators: []string{"mongodb", "mongo", "docdb"},
		adapter:        "mongodb",
		defaultPort:    27017,
		defaultTimeout: defaults.MongoConnectTimeout,
		configFile:     "mongoid.yml",
		pool: func(workers int) int {
			return workers * defaults.MongoPoolPerWorker
		},
		extras: func(b *mapping.Builder, settings descriptor.Tree) {
			b.Set("auth_source", firstNonEmpty(settingString(settings, "auth_source"), "admin"))
			if rs := settingString(settings, "replica_set"); rs != "" {
				b.Set("replica_set", rs)
			}
		},
	}
}

// Drivers returns every built-in database driver.
func Drivers() []driver.Driver {
	return []driver.Driver{
		NewPostgreSQL(),
		NewMySQL(),
		NewMongoDB(),
	}
}
