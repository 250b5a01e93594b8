package userdata

import (
	"time"

	"github.com/ansari-project/maix-server/core"
	"github.com/uptrace/bun"
)

// Invitation stores only the SHA-256 of its token; the plaintext exists
// transiently in the mail body and acceptance URL.
type Invitation struct {
	bun.BaseModel `bun:"userdata.invitations"`

	Id             int64                 `bun:",pk,autoincrement" json:"id,omitempty"`
	Email          string                `json:"email,omitempty"`
	HashedToken    string                `bun:",unique" json:"-"`
	Status         core.InvitationStatus `json:"status,omitempty"`
	Role           core.Role             `json:"role,omitempty"`
	Message        string                `json:"message,omitempty"`
	InviterId      int64                 `json:"inviter_id,omitempty"`
	Inviter        *User                 `bun:"rel:belongs-to,join:inviter_id=id" json:"inviter,omitempty"`
	OrganizationId int64                 `bun:",nullzero" json:"organization_id,omitempty"`
	ProjectId      int64                 `bun:",nullzero" json:"project_id,omitempty"`
	ProductId      int64                 `bun:",nullzero" json:"product_id,omitempty"`
	ExpiresAt      time.Time             `json:"expires_at,omitempty"`
	AcceptedAt     time.Time             `bun:",nullzero" json:"accepted_at,omitempty"`
	CreatedAt      time.Time             `bun:",nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
}

func (i *Invitation) Target() core.Target {
	switch {
	case i.OrganizationId != 0:
		return core.Target{Kind: core.TargetOrganization, ID: i.OrganizationId}
	case i.ProjectId != 0:
		return core.Target{Kind: core.TargetProject, ID: i.ProjectId}
	default:
		return core.Target{Kind: core.TargetProduct, ID: i.ProductId}
	}
}

func (i *Invitation) Record() *core.InvitationRecord {
	return &core.InvitationRecord{
		ID:        i.Id,
		Email:     i.Email,
		Role:      i.Role,
		Status:    i.Status,
		Target:    i.Target(),
		InviterID: i.InviterId,
		Message:   i.Message,
		ExpiresAt: i.ExpiresAt,
	}
}
