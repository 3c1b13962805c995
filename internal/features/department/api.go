package department

import (
	"github.com/gofiber/fiber/v2"
)

type DepartmentAPI struct {
	Controller *DepartmentController
}

func NewDepartmentAPI(controller *DepartmentController) *DepartmentAPI {
	return &DepartmentAPI{Controller: controller}
}

func (a *DepartmentAPI) Setup(app *fiber.App) {
	group := app.Group("/api/departments")
	group.Get("/", a.Controller.List)
	group.Get("/:id", a.Controller.Get)
}
