package controllers

import (
	"github.com/ansari-project/maix-server/core"
	"github.com/ansari-project/maix-server/repos"
	"github.com/ansari-project/maix-server/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	standardRoute utils.JwtMiddlewareConfig
	validate      *validator.Validate
)

func init() {
	standardRoute = utils.JwtMiddlewareConfig{
		ReadFrom: "header",
		Subject:  "access",
		Scopes:   []string{"basic"},
	}

	validate = validator.New()
}

func actor(c *fiber.Ctx) int64 {
	id, _ := c.Locals("user").(int64)
	return id
}

func validateRequest(v interface{}) []*utils.ErrorResponse {
	return utils.ValidateStruct(validate.Struct(v))
}

// notFound is the preferred denial for reads: an unauthorized caller learns
// nothing about whether the resource exists.
func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Not found",
	})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "Forbidden",
	})
}

func ownerInfo(c *fiber.Ctx, users *repos.UserRepo, orgs *repos.OrganizationRepo, res core.Resource) (fiber.Map, error) {
	ref, err := core.OwnerOf(res)
	if err != nil {
		return nil, err
	}

	if ref.Type == core.OwnerTypeUser {
		user, err := users.UserProfile(c.Context(), ref.ID)
		if err != nil {
			return nil, err
		}

		return fiber.Map{"type": ref.Type, "user": user}, nil
	}

	org, err := orgs.GetOrganization(c.Context(), ref.ID)
	if err != nil {
		return nil, err
	}

	return fiber.Map{"type": ref.Type, "organization": org}, nil
}
