package controllers

import (
	"errors"

	"github.com/ansari-project/maix-server/config"
	"github.com/ansari-project/maix-server/core"
	models "github.com/ansari-project/maix-server/models/userdata"
	"github.com/ansari-project/maix-server/repos"
	"github.com/ansari-project/maix-server/utils"
	"github.com/gofiber/fiber/v2"

	"go.uber.org/fx"
)

type OrganizationController struct {
	fx.In

	Repo           *repos.OrganizationRepo
	MembershipRepo *repos.MembershipRepo
	Evaluator      *core.Evaluator
}

func RegisterOrganizationController(r *utils.Router, config *config.Config, c OrganizationController) {
	orgs := r.Group("/organizations", utils.Protected(standardRoute))

	orgs.Post("/create", c.createOrganization)
	orgs.Get("/:id/members", c.listMembers)
	orgs.Post("/:id/members", c.addMember)
	orgs.Delete("/:id/members/:userId", c.removeMember)
}

type createOrgConfig struct {
	Name        string `json:"name" validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"max=4096"`
}

type addMemberConfig struct {
	UserId int64     `json:"user_id" validate:"required"`
	Role   core.Role `json:"role" validate:"required,oneof=OWNER MEMBER"`
}

func orgResource(id int64) core.Resource {
	return core.Resource{
		Kind:           core.TargetOrganization,
		OrganizationID: id,
		Visibility:     core.VisibilityPrivate,
	}
}

func (r *OrganizationController) createOrganization(c *fiber.Ctx) error {
	config := new(createOrgConfig)
	if err := c.BodyParser(config); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := validateRequest(*config); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	orgId, err := r.Repo.AddOrganization(c.Context(), config.Name, config.Description, actor(c))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Organization created!",
		"id":      orgId,
	})
}

func (r *OrganizationController) listMembers(c *fiber.Ctx) error {
	orgId, err := c.ParamsInt("id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionRead, orgResource(int64(orgId)))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return notFound(c)
	}

	members, err := r.MembershipRepo.ListOrganizationMembers(c.Context(), int64(orgId))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(members)
}

func (r *OrganizationController) addMember(c *fiber.Ctx) error {
	orgId, err := c.ParamsInt("id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	config := new(addMemberConfig)
	if err := c.BodyParser(config); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := validateRequest(*config); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionManageMembers, orgResource(int64(orgId)))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return forbidden(c)
	}

	id, err := r.MembershipRepo.AddMember(c.Context(), models.Membership{
		UserId:         config.UserId,
		OrganizationId: int64(orgId),
		Role:           config.Role,
	})
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Member added",
		"id":      id,
	})
}

func (r *OrganizationController) removeMember(c *fiber.Ctx) error {
	orgId, err := c.ParamsInt("id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	userId, err := c.ParamsInt("userId")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionManageMembers, orgResource(int64(orgId)))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return forbidden(c)
	}

	if err := r.MembershipRepo.RemoveFromOrganization(c.Context(), int64(orgId), int64(userId)); err != nil {
		if errors.Is(err, core.ErrLastOwner) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if errors.Is(err, core.ErrNotMember) {
			return notFound(c)
		}

		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Member removed",
	})
}
