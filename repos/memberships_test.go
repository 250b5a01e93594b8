package repos

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/ansari-project/maix-server/core"
	"github.com/stretchr/testify/require"
)

var membershipColumns = []string{"id", "user_id", "organization_id", "project_id", "product_id", "role", "created_at"}

func membershipRow(id, userId, organizationId int64, role core.Role) []driver.Value {
	return []driver.Value{id, userId, organizationId, nil, nil, string(role), time.Now()}
}

// The locked owner set holds a single surviving OWNER: exactly what the
// loser of two concurrent owner removals observes once the winner's
// transaction commits and the FOR UPDATE lock is released. The removal
// must refuse without issuing a delete.
func TestRemoveFromOrganizationLastOwner(t *testing.T) {
	db := newScriptedDB(
		step{columns: membershipColumns, rows: [][]driver.Value{membershipRow(1, 10, 5, core.RoleOwner)}},
		step{columns: membershipColumns, rows: [][]driver.Value{membershipRow(1, 10, 5, core.RoleOwner)}},
	)

	repo := NewMembershipRepo(db)

	err := repo.RemoveFromOrganization(context.Background(), 5, 10)
	require.ErrorIs(t, err, core.ErrLastOwner)
}

func TestRemoveFromOrganizationSecondOwner(t *testing.T) {
	db := newScriptedDB(
		step{columns: membershipColumns, rows: [][]driver.Value{
			membershipRow(1, 10, 5, core.RoleOwner),
			membershipRow(2, 11, 5, core.RoleOwner),
		}},
		step{columns: membershipColumns, rows: [][]driver.Value{membershipRow(1, 10, 5, core.RoleOwner)}},
		step{affected: 1},
	)

	repo := NewMembershipRepo(db)

	require.NoError(t, repo.RemoveFromOrganization(context.Background(), 5, 10))
}

func TestRemoveFromOrganizationMember(t *testing.T) {
	db := newScriptedDB(
		step{columns: membershipColumns, rows: [][]driver.Value{membershipRow(1, 10, 5, core.RoleOwner)}},
		step{columns: membershipColumns, rows: [][]driver.Value{membershipRow(2, 11, 5, core.RoleMember)}},
		step{affected: 1},
	)

	repo := NewMembershipRepo(db)

	require.NoError(t, repo.RemoveFromOrganization(context.Background(), 5, 11))
}

func TestRemoveFromOrganizationNotMember(t *testing.T) {
	db := newScriptedDB(
		step{columns: membershipColumns, rows: [][]driver.Value{membershipRow(1, 10, 5, core.RoleOwner)}},
		step{columns: membershipColumns},
	)

	repo := NewMembershipRepo(db)

	err := repo.RemoveFromOrganization(context.Background(), 5, 99)
	require.ErrorIs(t, err, core.ErrNotMember)
}
