package cron_feature

import (
	"github.com/gofiber/fiber/v2"
)

type ReminderController struct {
	Service ReminderService
}

func NewReminderController(service ReminderService) *ReminderController {
	return &ReminderController{Service: service}
}

// TriggerStaleSentCheck runs the stale-sent check immediately instead of
// waiting for the next scheduled run.
//
// @Summary Trigger the stale-sent reminder check
// @Tags Cron
// @Produce json
// @Router /api/cron/stale-sent-check [post]
func (c *ReminderController) TriggerStaleSentCheck(ctx *fiber.Ctx) error {
	count, err := c.Service.RunStaleSentCheck(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"status":    "success",
		"reminders": count,
	})
}
