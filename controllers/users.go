package controllers

import (
	"strings"

	"github.com/ansari-project/maix-server/config"
	models "github.com/ansari-project/maix-server/models/userdata"
	"github.com/ansari-project/maix-server/repos"
	"github.com/ansari-project/maix-server/utils"
	"github.com/gofiber/fiber/v2"

	"go.uber.org/fx"
)

type UserController struct {
	fx.In

	Repo *repos.UserRepo
}

func RegisterUserController(r *utils.Router, config *config.Config, c UserController) {
	users := r.Group("/users")

	users.Get("/profile", utils.Protected(standardRoute), c.userProfile)
	users.Post("/create", c.createUser)
}

type createUserConfig struct {
	Name     string `json:"name" validate:"required,min=1,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (r *UserController) userProfile(c *fiber.Ctx) error {
	user, err := r.Repo.UserProfile(c.Context(), actor(c))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(user)
}

func (r *UserController) createUser(c *fiber.Ctx) error {
	config := new(createUserConfig)
	if err := c.BodyParser(config); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := validateRequest(*config); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	existing, err := r.Repo.GetUserByEmail(c.Context(), strings.ToLower(config.Email))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Email is already registered",
		})
	}

	hash, err := utils.HashPassword(config.Password)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	id, err := r.Repo.AddUser(c.Context(), models.User{
		Name:     config.Name,
		Email:    strings.ToLower(config.Email),
		Password: hash,
	})
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created",
		"id":      id,
	})
}
