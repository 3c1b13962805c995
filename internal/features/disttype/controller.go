package disttype

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TypeController struct {
	Service TypeService
}

func NewTypeController(service TypeService) *TypeController {
	return &TypeController{Service: service}
}

// List godoc
//
// @Summary List distribution types
// @Tags DistributionTypes
// @Produce json
// @Router /api/distribution-types [get]
func (c *TypeController) List(ctx *fiber.Ctx) error {
	types, err := c.Service.List(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": types})
}

// Get godoc
//
// @Summary Get one distribution type
// @Tags DistributionTypes
// @Produce json
// @Router /api/distribution-types/{id} [get]
func (c *TypeController) Get(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid type id"})
	}
	dt, err := c.Service.GetByID(ctx.UserContext(), id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if dt == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "distribution type not found"})
	}
	return ctx.JSON(dt)
}
