package userdata

import (
	"time"

	"github.com/ansari-project/maix-server/core"
	"github.com/uptrace/bun"
)

// Membership ties a user to exactly one target entity under a role. The
// organization/project/product columns carry the same exclusivity rule as
// resource ownership: one populated, never more, never none. Organization
// memberships persist only OWNER and MEMBER.
type Membership struct {
	bun.BaseModel `bun:"userdata.memberships"`

	Id             int64         `bun:",pk,autoincrement" json:"id,omitempty"`
	UserId         int64         `json:"user_id,omitempty"`
	Users          *User         `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	OrganizationId int64         `bun:",nullzero" json:"organization_id,omitempty"`
	Organizations  *Organization `bun:"rel:belongs-to,join:organization_id=id" json:"organization,omitempty"`
	ProjectId      int64         `bun:",nullzero" json:"project_id,omitempty"`
	ProductId      int64         `bun:",nullzero" json:"product_id,omitempty"`
	Role           core.Role     `json:"role,omitempty"`
	CreatedAt      time.Time     `bun:",nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
}

func (m *Membership) Target() core.Target {
	switch {
	case m.OrganizationId != 0:
		return core.Target{Kind: core.TargetOrganization, ID: m.OrganizationId}
	case m.ProjectId != 0:
		return core.Target{Kind: core.TargetProject, ID: m.ProjectId}
	default:
		return core.Target{Kind: core.TargetProduct, ID: m.ProductId}
	}
}

func (m *Membership) Record() *core.MembershipRecord {
	return &core.MembershipRecord{
		ID:     m.Id,
		UserID: m.UserId,
		Role:   m.Role,
		Target: m.Target(),
	}
}
