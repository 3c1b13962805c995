package history

import (
	"github.com/gofiber/fiber/v2"
)

type HistoryAPI struct {
	Controller *HistoryController
}

func NewHistoryAPI(controller *HistoryController) *HistoryAPI {
	return &HistoryAPI{Controller: controller}
}

func (a *HistoryAPI) Setup(app *fiber.App) {
	app.Get("/api/distributions/:id/history", a.Controller.GetDistributionHistory)
}
