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

type ProductController struct {
	fx.In

	Repo      *repos.ProductRepo
	UserRepo  *repos.UserRepo
	OrgRepo   *repos.OrganizationRepo
	Evaluator *core.Evaluator
}

func RegisterProductController(r *utils.Router, config *config.Config, c ProductController) {
	products := r.Group("/products")

	products.Get("/:id", utils.Maybe(standardRoute), c.getProduct)
	products.Post("/create", utils.Protected(standardRoute), c.createProduct)
	products.Patch("/:id", utils.Protected(standardRoute), c.updateProduct)
	products.Delete("/:id", utils.Protected(standardRoute), c.deleteProduct)
}

func (r *ProductController) getProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	product, err := r.Repo.GetProduct(c.Context(), int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if product == nil {
		return notFound(c)
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionRead, product.Resource())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return notFound(c)
	}

	owner, err := ownerInfo(c, r.UserRepo, r.OrgRepo, product.Resource())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"product": product,
		"owner":   owner,
	})
}

func (r *ProductController) createProduct(c *fiber.Ctx) error {
	config := new(ownableConfig)
	if err := c.BodyParser(config); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := validateRequest(*config); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	product := &models.Product{
		Name:           config.Name,
		Description:    config.Description,
		Visibility:     config.Visibility,
		OwnerId:        config.OwnerId,
		OrganizationId: config.OrganizationId,
		CreatedAt:      time.Now(),
	}

	if res := checkNewOwnership(c, r.Evaluator, product.Resource()); res != nil {
		return res
	}

	if err := r.Repo.AddProduct(c.Context(), product); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func (r *ProductController) updateProduct(c *fiber.Ctx) error {
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

	product, err := r.Repo.GetProduct(c.Context(), int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if product == nil {
		return notFound(c)
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionUpdate, product.Resource())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return forbidden(c)
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Visibility != nil {
		product.Visibility = *patch.Visibility
	}
	if patch.OwnerId != nil {
		product.OwnerId = *patch.OwnerId
	}
	if patch.OrganizationId != nil {
		product.OrganizationId = *patch.OrganizationId
	}

	if err := core.ValidateOwnership(product.OwnerId, product.OrganizationId); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := r.Repo.UpdateProduct(c.Context(), product); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(product)
}

func (r *ProductController) deleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	product, err := r.Repo.GetProduct(c.Context(), int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if product == nil {
		return notFound(c)
	}

	ok, err := r.Evaluator.Can(c.Context(), actor(c), core.ActionDelete, product.Resource())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if !ok {
		return forbidden(c)
	}

	if err := r.Repo.DeleteProduct(c.Context(), product.Id); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted",
	})
}
