package department

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DepartmentController struct {
	Service DepartmentService
}

func NewDepartmentController(service DepartmentService) *DepartmentController {
	return &DepartmentController{Service: service}
}

// List godoc
//
// @Summary List departments
// @Tags Departments
// @Produce json
// @Router /api/departments [get]
func (c *DepartmentController) List(ctx *fiber.Ctx) error {
	departments, err := c.Service.List(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": departments})
}

// Get godoc
//
// @Summary Get one department
// @Tags Departments
// @Produce json
// @Router /api/departments/{id} [get]
func (c *DepartmentController) Get(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid department id"})
	}
	dept, err := c.Service.GetByID(ctx.UserContext(), id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if dept == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "department not found"})
	}
	return ctx.JSON(dept)
}
