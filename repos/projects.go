package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	models "github.com/ansari-project/maix-server/models/content"
	"github.com/uptrace/bun"
)

type ProjectRepo struct {
	db *bun.DB
}

func NewProjectRepo(db *bun.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (c *ProjectRepo) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	project := new(models.Project)

	err := c.db.NewSelect().Model(project).Where(`"project"."id" = ?`, id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return project, nil
}

func (c *ProjectRepo) AddProject(ctx context.Context, project *models.Project) error {
	_, err := c.db.NewInsert().Model(project).Returning("id").Exec(ctx)
	return err
}

func (c *ProjectRepo) UpdateProject(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	_, err := c.db.NewUpdate().Model(project).
		Column("name", "description", "visibility", "owner_id", "organization_id", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func (c *ProjectRepo) DeleteProject(ctx context.Context, id int64) error {
	_, err := c.db.NewDelete().Model((*models.Project)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
