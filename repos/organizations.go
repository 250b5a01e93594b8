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

type OrganizationRepo struct {
	db *bun.DB
}

func NewOrganizationRepo(db *bun.DB) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

func (c *OrganizationRepo) GetOrganization(ctx context.Context, id int64) (*models.Organization, error) {
	org := new(models.Organization)

	err := c.db.NewSelect().Model(org).Where(`"organization"."id" = ?`, id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return org, nil
}

// AddOrganization creates the organization and its creator's OWNER
// membership in one transaction, so no organization ever exists without an
// owner.
func (c *OrganizationRepo) AddOrganization(ctx context.Context, name, description string, creatorId int64) (int64, error) {
	org := &models.Organization{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(org).Returning("id").Exec(ctx); err != nil {
			return err
		}

		membership := &models.Membership{
			UserId:         creatorId,
			OrganizationId: org.Id,
			Role:           core.RoleOwner,
			CreatedAt:      org.CreatedAt,
		}

		_, err := tx.NewInsert().Model(membership).Exec(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	return org.Id, nil
}
