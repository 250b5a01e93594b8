package models

import (
	"github.com/ansari-project/maix-server/models/userdata"
	"github.com/uptrace/bun"
)

func InitModelRegistrations(db *bun.DB) {
	db.RegisterModel((*userdata.Membership)(nil))
}
