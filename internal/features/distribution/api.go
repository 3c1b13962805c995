package distribution

import (
	"github.com/gofiber/fiber/v2"
)

type DistributionAPI struct {
	Controller *DistributionController
}

func NewDistributionAPI(controller *DistributionController) *DistributionAPI {
	return &DistributionAPI{Controller: controller}
}

func (a *DistributionAPI) Setup(app *fiber.App) {
	group := app.Group("/api/distributions")

	group.Post("/", a.Controller.CreateDistribution)
	group.Get("/", a.Controller.ListDistributions)
	group.Get("/:id", a.Controller.GetDistribution)
	group.Patch("/:id", a.Controller.UpdateDistribution)
	group.Delete("/:id", a.Controller.DeleteDistribution)

	group.Post("/:id/documents", a.Controller.AttachDocuments)
	group.Delete("/:id/documents/:kind/:documentId", a.Controller.DetachDocument)

	group.Post("/:id/verify-sender", a.Controller.VerifySender)
	group.Post("/:id/send", a.Controller.SendDistribution)
	group.Post("/:id/receive", a.Controller.ReceiveDistribution)
	group.Post("/:id/verify-receiver", a.Controller.VerifyReceiver)
	group.Post("/:id/complete", a.Controller.CompleteDistribution)

	group.Get("/:id/discrepancies", a.Controller.GetDiscrepancies)
}
