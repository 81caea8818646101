package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackconf/stackconf/pkg/attributes"
	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/descriptor"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/errors"
)

func fixtureAttrs(t *testing.T, db map[string]any) *attributes.Attributes {
	t.Helper()
	app := &descriptor.Application{
		Shortname: "dummy_project",
		Domains:   []string{"dummy-project.example.com"},
	}
	overrides := descriptor.Tree{}
	if db != nil {
		overrides["database"] = db
	}
	return attributes.Normalize(app, overrides, config.NewConfig(config.WithConcurrency(4)))
}

func fixtureStore() *descriptor.DataStore {
	return &descriptor.DataStore{
		ARN:                  "arn:aws:rds:us-west-2:850906259207:db:dummy-project",
		Engine:               "postgres",
		Address:              "dummy-project.c298jfowejf.us-west-2.rds.amazon.com",
		Port:                 "5432",
		DBInstanceIdentifier: "dummy-project",
		DBName:               "dummydb",
		DBUser:               "dbuser",
		DBPassword:           "03c1bc98cdd5eb2f9c75",
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		db      map[string]any
		store   *descriptor.DataStore
		want    string
		wantErr bool
	}{
		{
			name:  "explicit adapter wins over store engine",
			db:    map[string]any{"adapter": "mysql2"},
			store: fixtureStore(),
			want:  "mysql2",
		},
		{
			name:  "inferred from store engine",
			store: fixtureStore(),
			want:  "postgres",
		},
		{
			name:    "store without engine",
			store:   &descriptor.DataStore{Address: "db"},
			wantErr: true,
		},
		{
			name:    "nothing to go on",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(fixtureAttrs(t, tt.db), tt.store)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeUnresolvableDriver))
				assert.Contains(t, err.Error(), "app=dummy_project")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_EveryDriverFillsRequiredKeys(t *testing.T) {
	for _, d := range Drivers() {
		t.Run(d.Name(), func(t *testing.T) {
			db := d.(driver.DatabaseDriver)
			m, err := db.Resolve(fixtureAttrs(t, nil), fixtureStore())
			require.NoError(t, err)

			for _, key := range RequiredKeys {
				require.True(t, m.Has(key), "missing %s", key)
				assert.NotEmpty(t, m.String(key), "empty %s", key)
			}
		})
	}
}

func TestPostgreSQL_ResolveLinkedStore(t *testing.T) {
	m, err := NewPostgreSQL().Resolve(fixtureAttrs(t, nil), fixtureStore())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"adapter", "host", "port", "database", "username", "password", "pool", "timeout", "encoding",
	}, m.Keys())
	assert.Equal(t, "postgresql", m.String("adapter"))
	assert.Equal(t, "dummy-project.c298jfowejf.us-west-2.rds.amazon.com", m.String("host"))
	assert.Equal(t, 5432, m.Int("port"))
	assert.Equal(t, "dummydb", m.String("database"))
	assert.Equal(t, "dbuser", m.String("username"))
	assert.Equal(t, "03c1bc98cdd5eb2f9c75", m.String("password"))
	assert.Equal(t, 6, m.Int("pool"))
	assert.Equal(t, 5000, m.Int("timeout"))
	assert.Equal(t, "unicode", m.String("encoding"))
}

func TestResolve_OverridesWin(t *testing.T) {
	attrs := fixtureAttrs(t, map[string]any{
		"host":     "replica.internal",
		"port":     "6432",
		"database": "override_db",
		"pool":     "25",
		"timeout":  10000,
		"sslmode":  "require",
	})

	m, err := NewPostgreSQL().Resolve(attrs, fixtureStore())
	require.NoError(t, err)

	assert.Equal(t, "replica.internal", m.String("host"))
	assert.Equal(t, 6432, m.Int("port"))
	assert.Equal(t, "override_db", m.String("database"))
	assert.Equal(t, 25, m.Int("pool"))
	assert.Equal(t, 10000, m.Int("timeout"))
	assert.Equal(t, "require", m.String("sslmode"))
	assert.Equal(t, "dbuser", m.String("username"))
}

func TestResolve_IncompleteUpstreamData(t *testing.T) {
	tests := []struct {
		name  string
		store func(s *descriptor.DataStore)
		field string
	}{
		{"missing address", func(s *descriptor.DataStore) { s.Address = "" }, "address"},
		{"missing port", func(s *descriptor.DataStore) { s.Port = nil }, "port"},
		{"non-numeric port", func(s *descriptor.DataStore) { s.Port = "five" }, "port"},
		{"zero port", func(s *descriptor.DataStore) { s.Port = 0 }, "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fixtureStore()
			tt.store(store)

			m, err := NewPostgreSQL().Resolve(fixtureAttrs(t, nil), store)
			assert.Nil(t, m)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeIncompleteUpstreamData))
			assert.Contains(t, err.Error(), "field="+tt.field)
			assert.Contains(t, err.Error(), "app=dummy_project")
		})
	}
}

func TestResolve_OverrideFillsIncompleteStore(t *testing.T) {
	store := fixtureStore()
	store.Port = nil

	m, err := NewPostgreSQL().Resolve(fixtureAttrs(t, map[string]any{"port": 5433}), store)
	require.NoError(t, err)
	assert.Equal(t, 5433, m.Int("port"))
}

func TestResolve_WithoutStoreUsesEngineDefaults(t *testing.T) {
	tests := []struct {
		driver driver.DatabaseDriver
		port   int
		pool   int
	}{
		{NewPostgreSQL(), 5432, 6},
		{NewMySQL(), 3306, 6},
		{NewMongoDB(), 27017, 20},
	}

	for _, tt := range tests {
		t.Run(tt.driver.Name(), func(t *testing.T) {
			m, err := tt.driver.Resolve(fixtureAttrs(t, map[string]any{"username": "app"}), nil)
			require.NoError(t, err)
			assert.Equal(t, "localhost", m.String("host"))
			assert.Equal(t, tt.port, m.Int("port"))
			assert.Equal(t, tt.pool, m.Int("pool"))
			assert.Equal(t, "dummy_project", m.String("database"))
			assert.True(t, m.Has("password"))
		})
	}
}

func TestMySQL_Extras(t *testing.T) {
	m, err := NewMySQL().Resolve(fixtureAttrs(t, map[string]any{"collation": "utf8mb4_bin"}), nil)
	require.NoError(t, err)

	assert.Equal(t, "mysql2", m.String("adapter"))
	assert.Equal(t, "utf8mb4", m.String("encoding"))
	assert.True(t, m.Bool("reconnect"))
	assert.Equal(t, "utf8mb4_bin", m.String("collation"))
}

func TestArtifacts(t *testing.T) {
	attrs := fixtureAttrs(t, nil)
	cfg := config.NewConfig()

	pg := NewPostgreSQL().Artifacts(attrs, nil, cfg)
	require.Len(t, pg, 1)
	assert.Equal(t, driver.ArtifactEnvironments, pg[0].Kind)
	assert.Equal(t, "/srv/www/dummy_project/shared/config/database.yml", pg[0].Path)

	mongo := NewMongoDB().Artifacts(attrs, nil, cfg)
	require.Len(t, mongo, 1)
	assert.Equal(t, "/srv/www/dummy_project/shared/config/mongoid.yml", mongo[0].Path)
}

func TestDrivers_RegisterCleanly(t *testing.T) {
	reg, err := driver.NewRegistry(Drivers()...)
	require.NoError(t, err)

	for _, disc := range []string{"postgres", "aurora-postgresql", "mysql2", "mariadb", "aurora", "docdb"} {
		_, err := reg.Database(disc)
		assert.NoError(t, err, disc)
	}
}
