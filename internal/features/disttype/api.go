package disttype

import (
	"github.com/gofiber/fiber/v2"
)

type TypeAPI struct {
	Controller *TypeController
}

func NewTypeAPI(controller *TypeController) *TypeAPI {
	return &TypeAPI{Controller: controller}
}

func (a *TypeAPI) Setup(app *fiber.App) {
	group := app.Group("/api/distribution-types")
	group.Get("/", a.Controller.List)
	group.Get("/:id", a.Controller.Get)
}
