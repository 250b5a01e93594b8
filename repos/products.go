package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	models "github.com/ansari-project/maix-server/models/content"
	"github.com/uptrace/bun"
)

type ProductRepo struct {
	db *bun.DB
}

func NewProductRepo(db *bun.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (c *ProductRepo) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product := new(models.Product)

	err := c.db.NewSelect().Model(product).Where(`"product"."id" = ?`, id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return product, nil
}

func (c *ProductRepo) AddProduct(ctx context.Context, product *models.Product) error {
	_, err := c.db.NewInsert().Model(product).Returning("id").Exec(ctx)
	return err
}

func (c *ProductRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()

	_, err := c.db.NewUpdate().Model(product).
		Column("name", "description", "visibility", "owner_id", "organization_id", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func (c *ProductRepo) DeleteProduct(ctx context.Context, id int64) error {
	_, err := c.db.NewDelete().Model((*models.Product)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
