package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	require.Equal(t, 1, Rank(RoleViewer))
	require.Equal(t, 2, Rank(RoleMember))
	require.Equal(t, 3, Rank(RoleAdmin))
	require.Equal(t, 4, Rank(RoleOwner))
	require.Equal(t, 0, Rank(Role("")))
	require.Equal(t, 0, Rank(Role("SUPERUSER")))
}

func TestSatisfies(t *testing.T) {
	roles := []Role{RoleViewer, RoleMember, RoleAdmin, RoleOwner}

	for _, held := range roles {
		for _, required := range roles {
			require.Equal(t, Rank(held) >= Rank(required), Satisfies(held, required),
				"held=%s required=%s", held, required)
		}
	}
}

func TestSatisfiesNoRole(t *testing.T) {
	for _, required := range []Role{RoleViewer, RoleMember, RoleAdmin, RoleOwner, ""} {
		require.False(t, Satisfies("", required), "required=%s", required)
	}
}
