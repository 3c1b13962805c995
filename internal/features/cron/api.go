package cron_feature

import (
	"github.com/gofiber/fiber/v2"
)

type ReminderAPI struct {
	Controller *ReminderController
}

func NewReminderAPI(controller *ReminderController) *ReminderAPI {
	return &ReminderAPI{Controller: controller}
}

func (a *ReminderAPI) Setup(app *fiber.App) {
	app.Post("/api/cron/stale-sent-check", a.Controller.TriggerStaleSentCheck)
}
