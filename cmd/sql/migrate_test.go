package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/sig-0/flip/storage/sql"
)

func TestMigrate_Migrations(t *testing.T) {
	t.Parallel()

	names, err := migrations()
	require.NoError(t, err)

	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])

	for _, name := range names {
		content, err := dbpkg.SchemaFS.ReadFile("schema/" + name)
		require.NoError(t, err)

		assert.NotEmpty(t, content)
	}
}
