package repos

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var organizationColumns = []string{"id", "name", "description", "created_at"}

// A missing organization is an absence, not a failure: callers turn the
// nil into a 404 the same way they do for projects and products.
func TestGetOrganizationMissing(t *testing.T) {
	db := newScriptedDB(step{columns: organizationColumns})

	repo := NewOrganizationRepo(db)

	org, err := repo.GetOrganization(context.Background(), 404)
	require.NoError(t, err)
	require.Nil(t, org)
}

func TestGetOrganization(t *testing.T) {
	db := newScriptedDB(step{
		columns: organizationColumns,
		rows:    [][]driver.Value{{int64(5), "Maix", "open source collaboration", time.Now()}},
	})

	repo := NewOrganizationRepo(db)

	org, err := repo.GetOrganization(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), org.Id)
	require.Equal(t, "Maix", org.Name)
}
