package userdata

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"userdata.users"`

	Id            int64          `bun:",pk,autoincrement" json:"id,omitempty"`
	Name          string         `json:"name,omitempty"`
	Email         string         `json:"email,omitempty"`
	Password      string         `json:"-"`
	Verified      bool           `json:"verified,omitempty"`
	Organizations []Organization `bun:"m2m:userdata.memberships,join:Users=Organizations" json:"organizations,omitempty"`
	CreatedAt     time.Time      `bun:",nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
}
