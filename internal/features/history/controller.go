package history

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HistoryController struct {
	Service HistoryService
}

func NewHistoryController(service HistoryService) *HistoryController {
	return &HistoryController{Service: service}
}

// GetDistributionHistory returns the append-only trail for one distribution,
// oldest entry first, with actor names resolved.
//
// @Summary Get a distribution's history
// @Tags History
// @Produce json
// @Router /api/distributions/{id}/history [get]
func (c *HistoryController) GetDistributionHistory(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid distribution id",
		})
	}
	entries, err := c.Service.ListByDistribution(ctx.UserContext(), id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load history",
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"history": entries,
	})
}
