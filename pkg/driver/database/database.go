// Package database implements the database drivers: PostgreSQL and MySQL for
// relational engines and MongoDB for the document store. Each produces a
// flat connection mapping that the renderer fans out per environment.
package database

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"

	"github.com/stackconf/stackconf/pkg/attributes"
	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/descriptor"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/errors"
	"github.com/stackconf/stackconf/pkg/mapping"
)

// Connection mapping keys every database driver emits.
const (
	KeyAdapter  = "adapter"
	KeyHost     = "host"
	KeyPort     = "port"
	KeyDatabase = "database"
	KeyUsername = "username"
	KeyPassword = "password"
	KeyPool     = "pool"
	KeyTimeout  = "timeout"
)

// RequiredKeys lists the keys a connection mapping must contain.
var RequiredKeys = []string{
	KeyAdapter, KeyHost, KeyPort, KeyDatabase,
	KeyUsername, KeyPassword, KeyPool, KeyTimeout,
}

// Select returns the discriminator for app: the operator's explicit adapter
// when set, otherwise the linked store's engine. With neither it fails with
// UNRESOLVABLE_DRIVER; guessing a database engine is never safe.
func Select(attrs *attributes.Attributes, store *descriptor.DataStore) (string, error) {
	if attrs.Database.Adapter != "" {
		return attrs.Database.Adapter, nil
	}
	if store != nil {
		if engine := strings.ToLower(strings.TrimSpace(store.Engine)); engine != "" {
			return engine, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnresolvableDriver,
		"no database adapter set and no linked data store engine to infer it from").
		WithContext("app", attrs.Shortname).
		WithContext("field", "database.adapter")
}

// engine holds what differs between database drivers.
type engine struct {
	name           string
	discriminators []string
	adapter        string
	defaultPort    int
	defaultTimeout int
	configFile     string

	// pool computes the default pool size from the worker count.
	pool func(workers int) int

	// extras appends engine-specific keys after the required ones.
	extras func(b *mapping.Builder, settings descriptor.Tree)
}

func (e *engine) Name() string             { return e.name }
func (e *engine) Concern() driver.Concern  { return driver.ConcernDatabase }
func (e *engine) Discriminators() []string { return append([]string(nil), e.discriminators...) }

// Artifacts declares the connection file under shared/config.
func (e *engine) Artifacts(attrs *attributes.Attributes, _ *mapping.Mapping, _ *config.Config) []driver.Artifact {
	return []driver.Artifact{{
		Kind: driver.ArtifactEnvironments,
		Path: filepath.Join(attrs.DeployRoot, "shared", "config", e.configFile),
		Mode: 0o640,
	}}
}

// Resolve builds the connection mapping. Operator overrides win over the
// linked store, which wins over engine defaults.
func (e *engine) Resolve(attrs *attributes.Attributes, store *descriptor.DataStore) (*mapping.Mapping, error) {
	settings := attrs.Database.Settings

	host, port, err := e.endpoint(attrs, store)
	if err != nil {
		return nil, err
	}

	var storeName, storeUser, storePassword string
	if store != nil {
		storeName, storeUser, storePassword = store.DBName, store.DBUser, store.DBPassword
	}

	b := mapping.NewBuilder().
		Set(KeyAdapter, e.adapter).
		Set(KeyHost, host).
		Set(KeyPort, port).
		Set(KeyDatabase, firstNonEmpty(settingString(settings, "database"), storeName, attrs.Shortname)).
		Set(KeyUsername, firstNonEmpty(settingString(settings, "username"), storeUser)).
		Set(KeyPassword, firstNonEmpty(settingString(settings, "password"), storePassword)).
		Set(KeyPool, settingInt(settings, "pool", e.pool(attrs.AppServer.Workers))).
		Set(KeyTimeout, settingInt(settings, "timeout", e.defaultTimeout))

	if e.extras != nil {
		e.extras(b, settings)
	}

	return b.Build(RequiredKeys...)
}

// endpoint resolves host and port. A linked store that lacks either, with
// no override to stand in, is INCOMPLETE_UPSTREAM_DATA.
func (e *engine) endpoint(attrs *attributes.Attributes, store *descriptor.DataStore) (string, int, error) {
	settings := attrs.Database.Settings
	host := settingString(settings, "host")
	port := settingInt(settings, "port", 0)

	if store == nil {
		return firstNonEmpty(host, "localhost"), orDefault(port, e.defaultPort), nil
	}

	if host == "" {
		host = strings.TrimSpace(store.Address)
	}
	if host == "" {
		return "", 0, incomplete(attrs.Shortname, store, "address")
	}

	if port == 0 {
		p, err := cast.ToIntE(store.Port)
		if store.Port == nil || err != nil || p <= 0 {
			return "", 0, incomplete(attrs.Shortname, store, "port")
		}
		port = p
	}
	return host, port, nil
}

func incomplete(app string, store *descriptor.DataStore, field string) error {
	return errors.New(errors.ErrCodeIncompleteUpstreamData,
		fmt.Sprintf("linked data store has no %s", field)).
		WithContext("app", app).
		WithContext("field", field).
		WithContext("store", firstNonEmpty(store.DBInstanceIdentifier, store.ARN))
}

func settingString(t descriptor.Tree, key string) string {
	v, ok := t.Lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func settingInt(t descriptor.Tree, key string, def int) int {
	v, ok := t.Lookup(key)
	if !ok {
		return def
	}
	if s, isStr := v.(string); isStr {
		v = strings.TrimSpace(s)
	}
	i, err := cast.ToIntE(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
