package report

import (
	"github.com/gofiber/fiber/v2"
)

type ReportAPI struct {
	Controller *ReportController
}

func NewReportAPI(controller *ReportController) *ReportAPI {
	return &ReportAPI{Controller: controller}
}

func (a *ReportAPI) Setup(app *fiber.App) {
	app.Get("/api/distributions/:id/transmittal", a.Controller.GetTransmittal)
}
