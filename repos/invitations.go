package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ansari-project/maix-server/core"
	models "github.com/ansari-project/maix-server/models/userdata"
	"github.com/uptrace/bun"
)

type InvitationRepo struct {
	db *bun.DB
}

func NewInvitationRepo(db *bun.DB) *InvitationRepo {
	return &InvitationRepo{db: db}
}

func (c *InvitationRepo) AddInvitation(ctx context.Context, invitation *models.Invitation) error {
	_, err := c.db.NewInsert().Model(invitation).Returning("id").Exec(ctx)
	return err
}

func (c *InvitationRepo) GetInvitation(ctx context.Context, id int64) (*models.Invitation, error) {
	invitation := new(models.Invitation)

	err := c.db.NewSelect().Model(invitation).Where(`"invitation"."id" = ?`, id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return invitation, nil
}

// Revoke cancels a still-pending invitation issued by the given inviter.
// Terminal states are left alone; reports whether a row actually flipped.
func (c *InvitationRepo) Revoke(ctx context.Context, id, inviterId int64) (bool, error) {
	res, err := c.db.NewUpdate().Model((*models.Invitation)(nil)).
		Set("status = ?", core.StatusRevoked).
		Where("id = ?", id).
		Where("inviter_id = ?", inviterId).
		Where("status = ?", core.StatusPending).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// ByTokenHash satisfies core.InvitationStore.
func (c *InvitationRepo) ByTokenHash(ctx context.Context, hash string) (*core.InvitationRecord, error) {
	invitation := new(models.Invitation)

	err := c.db.NewSelect().Model(invitation).Where("hashed_token = ?", hash).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return invitation.Record(), nil
}

// HasPending satisfies core.InvitationStore.
func (c *InvitationRepo) HasPending(ctx context.Context, email string, target core.Target) (bool, error) {
	q := c.db.NewSelect().Model((*models.Invitation)(nil)).
		Where("email = ?", email).
		Where("status = ?", core.StatusPending)

	switch target.Kind {
	case core.TargetOrganization:
		q = q.Where("organization_id = ?", target.ID)
	case core.TargetProject:
		q = q.Where("project_id = ?", target.ID)
	case core.TargetProduct:
		q = q.Where("product_id = ?", target.ID)
	}

	return q.Exists(ctx)
}

// Redeem satisfies core.InvitationStore. The PENDING to ACCEPTED flip is a
// single conditional UPDATE; whoever loses the race sees zero rows and gets
// nil back. The membership insert rides in the same transaction, so a
// failure there rolls the flip back too.
func (c *InvitationRepo) Redeem(ctx context.Context, hash string, userId int64, now time.Time) (*core.MembershipRecord, error) {
	var record *core.MembershipRecord

	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		invitation := new(models.Invitation)

		res, err := tx.NewUpdate().Model(invitation).
			Set("status = ?", core.StatusAccepted).
			Set("accepted_at = ?", now).
			Where("hashed_token = ?", hash).
			Where("status = ?", core.StatusPending).
			Where("expires_at > ?", now).
			Returning("*").
			Exec(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}

			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}

		if affected == 0 {
			return nil
		}

		membership := &models.Membership{
			UserId:         userId,
			OrganizationId: invitation.OrganizationId,
			ProjectId:      invitation.ProjectId,
			ProductId:      invitation.ProductId,
			Role:           invitation.Role,
			CreatedAt:      now,
		}

		if _, err := tx.NewInsert().Model(membership).Returning("id").Exec(ctx); err != nil {
			return err
		}

		record = membership.Record()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteExpired satisfies core.InvitationStore. Only PENDING rows past
// expiry qualify; ACCEPTED and REVOKED rows are never touched.
func (c *InvitationRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := c.db.NewDelete().Model((*models.Invitation)(nil)).
		Where("status = ?", core.StatusPending).
		Where("expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}
