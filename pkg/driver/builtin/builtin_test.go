package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/errors"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		concern driver.Concern
		disc    string
		want    string
	}{
		{driver.ConcernDatabase, "postgres", "postgresql"},
		{driver.ConcernDatabase, "aurora-postgresql", "postgresql"},
		{driver.ConcernDatabase, "mysql2", "mysql"},
		{driver.ConcernDatabase, "mariadb", "mysql"},
		{driver.ConcernDatabase, "docdb", "mongodb"},
		{driver.ConcernAppServer, "unicorn", "unicorn"},
		{driver.ConcernAppServer, "puma", "puma"},
		{driver.ConcernWebServer, "nginx", "nginx"},
	}

	for _, tt := range tests {
		t.Run(string(tt.concern)+"/"+tt.disc, func(t *testing.T) {
			d, err := r.Lookup(tt.concern, tt.disc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestNewRegistry_Suggestion(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = r.Lookup(driver.ConcernAppServer, "unicron")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnresolvableDriver))
	assert.Contains(t, err.Error(), `did you mean "unicorn"?`)
}

func TestNewRegistry_DuplicateBuiltins(t *testing.T) {
	_, err := driver.NewRegistry(append(Drivers(), Drivers()[0])...)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	infos := r.Describe()
	require.NotEmpty(t, infos)
	assert.Equal(t, driver.ConcernDatabase, infos[0].Concern)
	assert.Equal(t, driver.ConcernWebServer, infos[len(infos)-1].Concern)

	var names []string
	for _, info := range infos {
		names = append(names, info.Name)
		assert.NotEmpty(t, info.Discriminators)
		assert.Equal(t, info.Name, info.Discriminators[0])
	}
	assert.Subset(t, names, []string{"postgresql", "mysql", "mongodb", "puma", "unicorn", "nginx"})
}
