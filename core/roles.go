package core

// Role is a position in the platform-wide role hierarchy. The zero value
// means the actor holds no role on the resource at all.
type Role string

const (
	RoleViewer Role = "VIEWER"
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
	RoleOwner  Role = "OWNER"
)

var roleRanks = map[Role]int{
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// Rank returns the position of a role in the hierarchy. Unknown or absent
// roles rank 0, below everything.
func Rank(role Role) int {
	return roleRanks[role]
}

// Satisfies reports whether a held role meets a required one. An absent role
// satisfies nothing, not even VIEWER: anonymous actors are only ever let in
// through the public-visibility branch of the evaluator.
func Satisfies(held, required Role) bool {
	if held == "" {
		return false
	}

	return Rank(held) >= Rank(required)
}
