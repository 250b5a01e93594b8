package core

import "context"

type Action string

const (
	ActionRead          Action = "read"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionInvite        Action = "invite"
	ActionManageMembers Action = "manage_members"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityDraft   Visibility = "DRAFT"
)

type TargetKind string

const (
	TargetOrganization TargetKind = "organization"
	TargetProject      TargetKind = "project"
	TargetProduct      TargetKind = "product"
)

// Resource is the descriptor one access decision runs against. Kind matters
// because the required role for invite depends on what is being invited into.
type Resource struct {
	Kind           TargetKind
	OwnerID        int64
	OrganizationID int64
	Visibility     Visibility
}

// MembershipSource answers what role a user holds in an organization, ""
// when they are not a member. Implemented by repos.MembershipRepo; tests
// substitute an in-memory fake.
type MembershipSource interface {
	RoleInOrganization(ctx context.Context, organizationID, userID int64) (Role, error)
}

type Evaluator struct {
	memberships MembershipSource
}

func NewEvaluator(memberships MembershipSource) *Evaluator {
	return &Evaluator{memberships: memberships}
}

// Can decides whether an actor may perform an action on a resource. An
// actorID of 0 means anonymous. Policy outcomes are always the boolean; the
// error is only ever an infrastructure failure of the membership lookup.
// Callers decide how a false translates to the wire (404 is preferred for
// reads so existence is not confirmed to strangers).
func (e *Evaluator) Can(ctx context.Context, actorID int64, action Action, res Resource) (bool, error) {
	if action == ActionRead && res.Visibility == VisibilityPublic {
		return true, nil
	}

	if actorID == 0 {
		return false, nil
	}

	held, err := e.effectiveRole(ctx, actorID, res)
	if err != nil {
		return false, err
	}

	return Satisfies(held, RequiredRole(action, res.Kind)), nil
}

func (e *Evaluator) effectiveRole(ctx context.Context, actorID int64, res Resource) (Role, error) {
	if res.OwnerID == actorID {
		return RoleOwner, nil
	}

	if res.OrganizationID != 0 {
		return e.memberships.RoleInOrganization(ctx, res.OrganizationID, actorID)
	}

	return "", nil
}

// RequiredRole maps an action to the role it demands. Organizations persist
// only OWNER and MEMBER, so ADMIN-gated actions on organization-owned
// resources are satisfiable only by organization owners. That asymmetry is
// intentional and must stay.
func RequiredRole(action Action, kind TargetKind) Role {
	switch action {
	case ActionRead:
		return RoleViewer
	case ActionUpdate:
		return RoleMember
	case ActionDelete, ActionManageMembers:
		return RoleAdmin
	case ActionInvite:
		// Inviting into an organization grows the organization itself,
		// so it takes the strictest bar.
		if kind == TargetOrganization {
			return RoleOwner
		}
		return RoleAdmin
	}

	return RoleOwner
}
