package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ansari-project/maix-server/core"
	models "github.com/ansari-project/maix-server/models/userdata"
	"github.com/uptrace/bun"
)

type MembershipRepo struct {
	db *bun.DB
}

func NewMembershipRepo(db *bun.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// RoleInOrganization satisfies core.MembershipSource. "" means not a member.
func (c *MembershipRepo) RoleInOrganization(ctx context.Context, organizationId, userId int64) (core.Role, error) {
	membership := new(models.Membership)

	err := c.db.NewSelect().Model(membership).Column("role").
		Where("organization_id = ?", organizationId).
		Where("user_id = ?", userId).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", err
	}

	return membership.Role, nil
}

func (c *MembershipRepo) ListOrganizationMembers(ctx context.Context, organizationId int64) ([]models.Membership, error) {
	memberships := make([]models.Membership, 0)

	err := c.db.NewSelect().Model(&memberships).Relation("Users", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.ExcludeColumn("password")
	}).Where("organization_id = ?", organizationId).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return memberships, nil
}

func (c *MembershipRepo) AddMember(ctx context.Context, membership models.Membership) (int64, error) {
	_, err := c.db.NewInsert().Model(&membership).Returning("id").Exec(ctx)
	return membership.Id, err
}

// RemoveFromOrganization deletes a membership unless it is the
// organization's last OWNER. The OWNER rows are locked before the guard
// runs, so two concurrent removals of different owners serialize and the
// loser re-reads the surviving owner set after the winner commits.
func (c *MembershipRepo) RemoveFromOrganization(ctx context.Context, organizationId, userId int64) error {
	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		owners := make([]models.Membership, 0)
		err := tx.NewSelect().Model(&owners).
			Where("organization_id = ?", organizationId).
			Where("role = ?", core.RoleOwner).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}

		membership := new(models.Membership)
		err = tx.NewSelect().Model(membership).
			Where("organization_id = ?", organizationId).
			Where("user_id = ?", userId).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return core.ErrNotMember
			}

			return err
		}

		if membership.Role == core.RoleOwner && len(owners) < 2 {
			return core.ErrLastOwner
		}

		_, err = tx.NewDelete().Model((*models.Membership)(nil)).Where("id = ?", membership.Id).Exec(ctx)
		return err
	})
}
