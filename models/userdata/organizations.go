package userdata

import (
	"time"

	"github.com/uptrace/bun"
)

type Organization struct {
	bun.BaseModel `bun:"userdata.organizations"`

	Id          int64     `bun:",pk,autoincrement" json:"id,omitempty"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Members     []User    `bun:"m2m:userdata.memberships,join:Organizations=Users" json:"members,omitempty"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
}
