package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackconf/stackconf/pkg/errors"
)

func fixtureInventory() *Inventory {
	return &Inventory{
		Applications: []Application{
			{
				Shortname: "dummy_project",
				Domains:   []string{"dummy-project.example.com", "www.dummy-project.example.com"},
				DataSources: []DataSource{
					{Type: "RdsDbInstance", ARN: "arn:aws:rds:us-west-2:850906259207:db:dummy-project"},
				},
			},
			{Shortname: "static_site"},
		},
		DataStores: []DataStore{
			{ARN: "arn:aws:rds:us-west-2:850906259207:db:other", Engine: "mysql"},
			{ARN: "arn:aws:rds:us-west-2:850906259207:db:dummy-project", Engine: "postgres", Address: "db.example.com", Port: 5432},
		},
		Deploy: Tree{
			"dummy_project": map[string]any{
				"webserver": map[string]any{"keepalive_timeout": "20"},
			},
		},
	}
}

func TestInventory_Validate(t *testing.T) {
	tests := []struct {
		name    string
		apps    []Application
		wantErr bool
	}{
		{"valid", []Application{{Shortname: "a"}, {Shortname: "b"}}, false},
		{"empty inventory", nil, false},
		{"missing shortname", []Application{{Shortname: " "}}, true},
		{"duplicate shortname", []Application{{Shortname: "a"}, {Shortname: "a"}}, true},
		{"path separator", []Application{{Shortname: "../etc"}}, true},
		{"ssl apps share first domain", []Application{
			{Shortname: "a", Domains: []string{"example.com"}, EnableSSL: true},
			{Shortname: "b", Domains: []string{" example.com", "b.example.com"}, EnableSSL: true},
		}, true},
		{"shared first domain without ssl", []Application{
			{Shortname: "a", Domains: []string{"example.com"}, EnableSSL: true},
			{Shortname: "b", Domains: []string{"example.com"}},
		}, false},
		{"ssl apps with distinct domains", []Application{
			{Shortname: "a", Domains: []string{"a.example.com"}, EnableSSL: true},
			{Shortname: "b", Domains: []string{"b.example.com"}, EnableSSL: true},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Inventory{Applications: tt.apps}
			err := inv.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
				t.Errorf("Validate() code = %s, want %s", errors.CodeOf(err), errors.ErrCodeInvalidRequest)
			}
		})
	}
}

func TestInventory_LinkedStore(t *testing.T) {
	inv := fixtureInventory()

	app, ok := inv.Application("dummy_project")
	require.True(t, ok)
	store := inv.LinkedStore(app)
	require.NotNil(t, store)
	assert.Equal(t, "postgres", store.Engine)

	static, ok := inv.Application("static_site")
	require.True(t, ok)
	assert.Nil(t, inv.LinkedStore(static))

	_, ok = inv.Application("missing")
	assert.False(t, ok)
}

func TestInventory_Overrides(t *testing.T) {
	inv := fixtureInventory()

	ws := inv.Overrides("dummy_project").Sub(SectionWebServer)
	v, ok := ws.Lookup("keepalive_timeout")
	require.True(t, ok)
	assert.Equal(t, "20", v)

	empty := inv.Overrides("static_site").Sub(SectionDatabase)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTree_Sub(t *testing.T) {
	tree := Tree{
		"nested":     map[string]any{"a": 1},
		"typed":      Tree{"b": 2},
		"interfaces": map[any]any{"c": 3},
		"scalar":     "not a map",
		"null":       nil,
	}

	assert.Equal(t, Tree{"a": 1}, tree.Sub("nested"))
	assert.Equal(t, Tree{"b": 2}, tree.Sub("typed"))
	assert.Equal(t, Tree{"c": 3}, tree.Sub("interfaces"))
	assert.Equal(t, Tree{}, tree.Sub("scalar"))
	assert.Equal(t, Tree{}, tree.Sub("null"))
	assert.Equal(t, Tree{}, tree.Sub("absent"))
	assert.Equal(t, Tree{}, Tree(nil).Path("x", "y", "z"))
}

func TestApplication_FirstDomain(t *testing.T) {
	app := Application{Shortname: "app", Domains: []string{"", " example.com "}}
	assert.Equal(t, "example.com", app.FirstDomain())

	app.Domains = nil
	assert.Equal(t, "app", app.FirstDomain())
}
