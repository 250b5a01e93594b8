package controllers

import (
	"time"

	"github.com/ansari-project/maix-server/config"
	"github.com/ansari-project/maix-server/core"
	models "github.com/ansari-project/maix-server/models/content"
	"github.com/ansari-project/maix-server/repos"
	"github.com/ansari-project/maix-server/utils"
	"github.com/gofiber/fiber/v2"

	"go.uber.org/fx"
)

type ProjectController struct {
	fx.In

	Repo      *repos.ProjectRepo
	UserRepo  *repos.UserRepo
	OrgRepo   *repos.OrganizationRepo
	Evaluator *core.Evaluator
}

func RegisterProjectController(r *utils.Router, config *config.Config, c ProjectController) {
	projects := r.Group("/projects")

	// Reads stay open to anonymous callers; the evaluator decides what a
	// missing actor may see.
	projects.Get("/:id", utils.Maybe(standardRoute), c.getProject)
	projects.Post("/create", utils.Protected(standardRoute), c.createProject)
	projects.Patch("/:id", utils.Protected(standardRoute), c.updateProject)
	projects.Delete("/:id", utils.Protected(standardRoute), c.deleteProject)
}

type ownableConfig struct {
	Name           string          `json:"name" validate:"required,min=1,max=128"`
	Description    string          `json:"description" validate:"max=16384"`
	Visibility     core.Visibility `json:"visibility" validate:"required,oneof=PUBLIC PRIVATE DRAFT"`
	OwnerId        int64           `json:"owner_id"`
	OrganizationId int64           `json:"organization_id"`
}

type ownablePatch struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=128"`
	Description    *string          `json:"description" validate:"omitempty,max=16384"`
	Visibility     *core.Visibility `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE DRAFT"`
	OwnerId        *int64           `json:"owner_id"`
	OrganizationId *int64           `json:"organization_id"`
}

// checkNewOwnership guards every creation path: dual-ownership exclusivity
// first, then that the caller may actually place a resource there. Returns
// a handled response or nil to continue.
func checkNewOwnership(c *fiber.Ctx, ev *core.Evaluator, res core.Resource) error {
	if err := core.ValidateOwnership(res.OwnerID, res.OrganizationID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if res.OwnerID != 0 && res.OwnerID != actor(c) {
		return forbidden(c)
	}

	ok, err := ev.Can(c.Context(), actor(c), core.ActionUpdate, res)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return forbidden(c)
	}

	return nil
}

func (r *ProjectController) getProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	project, err := r.Repo.GetProject(c.Context(), int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if project == nil {
		return notFound(c)
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionRead, project.Resource())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return notFound(c)
	}

	owner, err := ownerInfo(c, r.UserRepo, r.OrgRepo, project.Resource())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"project": project,
		"owner":   owner,
	})
}

func (r *ProjectController) createProject(c *fiber.Ctx) error {
	config := new(ownableConfig)
	if err := c.BodyParser(config); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := validateRequest(*config); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	project := &models.Project{
		Name:           config.Name,
		Description:    config.Description,
		Visibility:     config.Visibility,
		OwnerId:        config.OwnerId,
		OrganizationId: config.OrganizationId,
		CreatedAt:      time.Now(),
	}

	if res := checkNewOwnership(c, r.Evaluator, project.Resource()); res != nil {
		return res
	}

	if err := r.Repo.AddProject(c.Context(), project); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

func (r *ProjectController) updateProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	patch := new(ownablePatch)
	if err := c.BodyParser(patch); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := validateRequest(*patch); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	project, err := r.Repo.GetProject(c.Context(), int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if project == nil {
		return notFound(c)
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionUpdate, project.Resource())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return forbidden(c)
	}

	if patch.Name != nil {
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Visibility != nil {
		project.Visibility = *patch.Visibility
	}
	if patch.OwnerId != nil {
		project.OwnerId = *patch.OwnerId
	}
	if patch.OrganizationId != nil {
		project.OrganizationId = *patch.OrganizationId
	}

	// Ownership may have been rewritten by the patch; the invariant is
	// application-level, not a storage concern.
	if err := core.ValidateOwnership(project.OwnerId, project.OrganizationId); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := r.Repo.UpdateProject(c.Context(), project); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(project)
}

func (r *ProjectController) deleteProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	project, err := r.Repo.GetProject(c.Context(), int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if project == nil {
		return notFound(c)
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionDelete, project.Resource())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return forbidden(c)
	}

	if err := r.Repo.DeleteProject(c.Context(), project.Id); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Project deleted",
	})
}
