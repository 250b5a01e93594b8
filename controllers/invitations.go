package controllers

import (
	"strings"
	"time"

	"github.com/ansari-project/maix-server/config"
	"github.com/ansari-project/maix-server/core"
	models "github.com/ansari-project/maix-server/models/userdata"
	"github.com/ansari-project/maix-server/providers/email"
	"github.com/ansari-project/maix-server/repos"
	"github.com/ansari-project/maix-server/utils"
	"github.com/gofiber/fiber/v2"

	"go.uber.org/fx"
)

type InvitationController struct {
	fx.In

	Repo        *repos.InvitationRepo
	UserRepo    *repos.UserRepo
	OrgRepo     *repos.OrganizationRepo
	ProjectRepo *repos.ProjectRepo
	ProductRepo *repos.ProductRepo
	Service     *core.InvitationService
	Evaluator   *core.Evaluator
	Mailer      *email.Mailer
}

var (
	appOrigin string
	inviteTtl time.Duration
)

func RegisterInvitationController(r *utils.Router, config *config.Config, c InvitationController) {
	appOrigin = config.AppOrigin
	inviteTtl = config.InviteTtl

	r.Get("/accept-invitation", c.validateInvitation)

	invitations := r.Group("/invitations", utils.Protected(standardRoute))

	invitations.Post("/create", c.createInvitation)
	invitations.Post("/accept", c.acceptInvitation)
	invitations.Post("/:id/revoke", c.revokeInvitation)
}

type createInvitationConfig struct {
	Email          string    `json:"email" validate:"required,email"`
	Role           core.Role `json:"role" validate:"required,oneof=VIEWER MEMBER ADMIN OWNER"`
	Message        string    `json:"message" validate:"max=4096"`
	OrganizationId int64     `json:"organization_id"`
	ProjectId      int64     `json:"project_id"`
	ProductId      int64     `json:"product_id"`
}

type acceptInvitationConfig struct {
	Token string `json:"token" validate:"required"`
}

func (r *InvitationController) createInvitation(c *fiber.Ctx) error {
	config := new(createInvitationConfig)
	if err := c.BodyParser(config); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := validateRequest(*config); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	targets := 0
	for _, id := range []int64{config.OrganizationId, config.ProjectId, config.ProductId} {
		if id != 0 {
			targets++
		}
	}
	if targets != 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invitation must target exactly one entity",
		})
	}

	target, resource, entityName, err := r.resolveTarget(c, config)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if entityName == "" {
		return notFound(c)
	}

	// Organization memberships persist only OWNER and MEMBER.
	if target.Kind == core.TargetOrganization && config.Role != core.RoleOwner && config.Role != core.RoleMember {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Organizations only support OWNER and MEMBER roles",
		})
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionInvite, resource)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return forbidden(c)
	}

	invited, err := r.Service.AlreadyInvited(c.Context(), config.Email, target)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if invited {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A pending invitation already exists for this email",
		})
	}

	token := core.GenerateToken()
	invitation := &models.Invitation{
		Email:          strings.ToLower(strings.TrimSpace(config.Email)),
		HashedToken:    core.HashToken(token),
		Status:         core.StatusPending,
		Role:           config.Role,
		Message:        config.Message,
		InviterId:      actor(c),
		OrganizationId: config.OrganizationId,
		ProjectId:      config.ProjectId,
		ProductId:      config.ProductId,
		ExpiresAt:      time.Now().Add(inviteTtl),
		CreatedAt:      time.Now(),
	}

	if err := r.Repo.AddInvitation(c.Context(), invitation); err != nil {
		return utils.StandardInternalError(c, err)
	}

	inviter, err := r.UserRepo.UserProfile(c.Context(), actor(c))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	// Delivery failure never rolls the invitation back.
	go r.Mailer.SendInvitation(email.InvitationMail{
		Recipient:     invitation.Email,
		InviterName:   inviter.Name,
		EntityType:    string(target.Kind),
		EntityName:    entityName,
		Role:          string(invitation.Role),
		Message:       invitation.Message,
		InvitationUrl: core.BuildInvitationURL(appOrigin, token),
		ExpiresAt:     invitation.ExpiresAt,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Invitation sent",
		"id":      invitation.Id,
	})
}

func (r *InvitationController) resolveTarget(c *fiber.Ctx, config *createInvitationConfig) (core.Target, core.Resource, string, error) {
	switch {
	case config.OrganizationId != 0:
		org, err := r.OrgRepo.GetOrganization(c.Context(), config.OrganizationId)
		if err != nil || org == nil {
			return core.Target{}, core.Resource{}, "", err
		}

		return core.Target{Kind: core.TargetOrganization, ID: org.Id}, orgResource(org.Id), org.Name, nil
	case config.ProjectId != 0:
		project, err := r.ProjectRepo.GetProject(c.Context(), config.ProjectId)
		if err != nil || project == nil {
			return core.Target{}, core.Resource{}, "", err
		}

		return core.Target{Kind: core.TargetProject, ID: project.Id}, project.Resource(), project.Name, nil
	default:
		product, err := r.ProductRepo.GetProduct(c.Context(), config.ProductId)
		if err != nil || product == nil {
			return core.Target{}, core.Resource{}, "", err
		}

		return core.Target{Kind: core.TargetProduct, ID: product.Id}, product.Resource(), product.Name, nil
	}
}

func (r *InvitationController) validateInvitation(c *fiber.Ctx) error {
	result, err := r.Service.Validate(c.Context(), c.Query("token"))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !result.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}

	return c.JSON(result)
}

func (r *InvitationController) acceptInvitation(c *fiber.Ctx) error {
	config := new(acceptInvitationConfig)
	if err := c.BodyParser(config); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	result := r.Service.Redeem(c.Context(), config.Token, actor(c))
	if !result.Success {
		if result.Code == core.CodeRedemptionFailed {
			return c.Status(fiber.StatusInternalServerError).JSON(result)
		}

		return c.Status(fiber.StatusBadRequest).JSON(result)
	}

	return c.JSON(result)
}

func (r *InvitationController) revokeInvitation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	revoked, err := r.Repo.Revoke(c.Context(), int64(id), actor(c))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !revoked {
		return notFound(c)
	}

	return c.JSON(fiber.Map{
		"message": "Invitation revoked",
	})
}
