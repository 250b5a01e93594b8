package content

import (
	"time"

	"github.com/ansari-project/maix-server/core"
	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"content.products"`

	Id             int64           `bun:",pk,autoincrement" json:"id,omitempty"`
	Name           string          `json:"name,omitempty"`
	Description    string          `json:"description,omitempty"`
	Visibility     core.Visibility `json:"visibility,omitempty"`
	OwnerId        int64           `bun:",nullzero" json:"owner_id,omitempty"`
	OrganizationId int64           `bun:",nullzero" json:"organization_id,omitempty"`
	CreatedAt      time.Time       `bun:",nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      time.Time       `bun:",nullzero" json:"updated_at,omitempty"`
}

func (p *Product) Resource() core.Resource {
	return core.Resource{
		Kind:           core.TargetProduct,
		OwnerID:        p.OwnerId,
		OrganizationID: p.OrganizationId,
		Visibility:     p.Visibility,
	}
}
