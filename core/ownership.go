package core

import "errors"

var (
	ErrDualOwnership = errors.New("a resource must have exactly one user or one organization owner")
	ErrMissingOwner  = errors.New("resource must have an owner")

	ErrLastOwner = errors.New("an organization must retain at least one owner")
	ErrNotMember = errors.New("user is not a member")
)

// ValidateOwnership enforces dual ownership exclusivity: every ownable
// resource belongs to exactly one user or exactly one organization, never
// both and never neither. Zero means absent. Every create and update path
// that can change ownership must call this before touching storage, so the
// failure is attributable and happens before any side effect.
func ValidateOwnership(ownerID, organizationID int64) error {
	if ownerID != 0 && organizationID != 0 {
		return ErrDualOwnership
	}

	if ownerID == 0 && organizationID == 0 {
		return ErrMissingOwner
	}

	return nil
}

type OwnerType string

const (
	OwnerTypeUser         OwnerType = "user"
	OwnerTypeOrganization OwnerType = "organization"
)

// OwnerRef identifies which side of the dual-ownership rule holds a resource.
type OwnerRef struct {
	Type OwnerType `json:"type"`
	ID   int64     `json:"id"`
}

// OwnerOf resolves a resource descriptor to its single owner. Fails with the
// same errors as ValidateOwnership when the descriptor violates exclusivity.
func OwnerOf(res Resource) (OwnerRef, error) {
	if err := ValidateOwnership(res.OwnerID, res.OrganizationID); err != nil {
		return OwnerRef{}, err
	}

	if res.OwnerID != 0 {
		return OwnerRef{Type: OwnerTypeUser, ID: res.OwnerID}, nil
	}

	return OwnerRef{Type: OwnerTypeOrganization, ID: res.OrganizationID}, nil
}
