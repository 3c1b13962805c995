package distribution

import (
	"errors"
	"strconv"
	"time"

	common_models "go-docdist/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DistributionController struct {
	Service DistributionService
}

func NewDistributionController(service DistributionService) *DistributionController {
	return &DistributionController{Service: service}
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(ctx *fiber.Ctx, err error) error {
	var (
		validation  *ValidationError
		notFound    *NotFoundError
		precond     *PreconditionError
		discrepancy *DiscrepancyConfirmationError
		conflict    *ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validation.Msg,
		})
	case errors.As(err, &notFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFound.Msg,
		})
	case errors.As(err, &precond):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": precond.Msg,
		})
	case errors.As(err, &discrepancy):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":     discrepancy.Error(),
			"code":      "discrepancy_confirmation_required",
			"documents": discrepancy.Documents,
		})
	case errors.As(err, &conflict):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": conflict.Msg,
			"code":  "concurrent_update",
		})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

func parseID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return primitive.NilObjectID, validationf("invalid distribution id")
	}
	return id, nil
}

// CreateDistribution creates a draft distribution with its documents.
//
// @Summary Create a distribution
// @Tags Distributions
// @Accept json
// @Produce json
// @Router /api/distributions [post]
func (c *DistributionController) CreateDistribution(ctx *fiber.Ctx) error {
	var input CreateInput
	if err := ctx.BodyParser(&input); err != nil {
		return respondError(ctx, validationf("invalid request body"))
	}
	result, err := c.Service.Create(ctx.UserContext(), input)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(result)
}

// GetDistribution returns one distribution with its documents.
//
// @Summary Get a distribution
// @Tags Distributions
// @Produce json
// @Router /api/distributions/{id} [get]
func (c *DistributionController) GetDistribution(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	dist, docs, err := c.Service.Get(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"distribution": dist,
		"documents":    docs,
	})
}

// ListDistributions returns a filtered page of distributions.
//
// @Summary List distributions
// @Tags Distributions
// @Produce json
// @Router /api/distributions [get]
func (c *DistributionController) ListDistributions(ctx *fiber.Ctx) error {
	filter := ListFilter{
		Status:    Status(ctx.Query("status")),
		CreatedBy: ctx.Query("created_by"),
	}
	if v := ctx.Query("origin_department_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return respondError(ctx, validationf("invalid origin_department_id"))
		}
		filter.OriginID = id
	}
	if v := ctx.Query("destination_department_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return respondError(ctx, validationf("invalid destination_department_id"))
		}
		filter.DestinationID = id
	}
	if v := ctx.Query("type_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return respondError(ctx, validationf("invalid type_id"))
		}
		filter.TypeID = id
	}
	if v := ctx.Query("created_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return respondError(ctx, validationf("invalid created_from, expected RFC3339"))
		}
		filter.CreatedFrom = t
	}
	if v := ctx.Query("created_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return respondError(ctx, validationf("invalid created_to, expected RFC3339"))
		}
		filter.CreatedTo = t
	}
	filter.Page, _ = strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)

	dists, total, err := c.Service.List(ctx.UserContext(), filter)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"distributions": dists,
		"total":         total,
		"page":          filter.Page,
		"limit":         filter.Limit,
	})
}

// UpdateDistribution updates a draft's type, destination, or notes.
//
// @Summary Update a draft distribution
// @Tags Distributions
// @Accept json
// @Produce json
// @Router /api/distributions/{id} [patch]
func (c *DistributionController) UpdateDistribution(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var input UpdateInput
	if err := ctx.BodyParser(&input); err != nil {
		return respondError(ctx, validationf("invalid request body"))
	}
	dist, err := c.Service.Update(ctx.UserContext(), id, input)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(dist)
}

// DeleteDistribution soft-deletes a draft distribution.
//
// @Summary Delete a draft distribution
// @Tags Distributions
// @Produce json
// @Router /api/distributions/{id} [delete]
func (c *DistributionController) DeleteDistribution(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := c.Service.Delete(ctx.UserContext(), id); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "distribution deleted",
	})
}

// AttachDocuments adds documents to a draft distribution.
//
// @Summary Attach documents to a draft
// @Tags Distributions
// @Accept json
// @Produce json
// @Router /api/distributions/{id}/documents [post]
func (c *DistributionController) AttachDocuments(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var input AttachInput
	if err := ctx.BodyParser(&input); err != nil {
		return respondError(ctx, validationf("invalid request body"))
	}
	result, err := c.Service.AttachDocuments(ctx.UserContext(), id, input)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(result)
}

// DetachDocument removes one document from a draft distribution.
//
// @Summary Detach a document from a draft
// @Tags Distributions
// @Produce json
// @Router /api/distributions/{id}/documents/{kind}/{documentId} [delete]
func (c *DistributionController) DetachDocument(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	docID, err := primitive.ObjectIDFromHex(ctx.Params("documentId"))
	if err != nil {
		return respondError(ctx, validationf("invalid document id"))
	}
	ref := common_models.DocumentRef{
		Kind:       common_models.DocumentKind(ctx.Params("kind")),
		DocumentID: docID,
	}
	if err := c.Service.DetachDocument(ctx.UserContext(), id, ref); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "document detached",
	})
}

// VerifySender records the sender-side verification and advances the status.
//
// @Summary Verify a distribution as the sender
// @Tags Distributions
// @Accept json
// @Produce json
// @Router /api/distributions/{id}/verify-sender [post]
func (c *DistributionController) VerifySender(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var input VerificationInput
	if err := ctx.BodyParser(&input); err != nil {
		return respondError(ctx, validationf("invalid request body"))
	}
	dist, err := c.Service.VerifySender(ctx.UserContext(), id, input)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(dist)
}

// SendDistribution marks a verified distribution as sent.
//
// @Summary Send a distribution
// @Tags Distributions
// @Produce json
// @Router /api/distributions/{id}/send [post]
func (c *DistributionController) SendDistribution(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	dist, err := c.Service.Send(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(dist)
}

// ReceiveDistribution marks a sent distribution as received and relocates
// every document to the destination.
//
// @Summary Receive a distribution
// @Tags Distributions
// @Produce json
// @Router /api/distributions/{id}/receive [post]
func (c *DistributionController) ReceiveDistribution(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	dist, err := c.Service.Receive(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(dist)
}

// VerifyReceiver records the receiver-side verification. When missing or
// damaged documents are reported without accept_discrepancies, responds 422
// with code discrepancy_confirmation_required.
//
// @Summary Verify a distribution as the receiver
// @Tags Distributions
// @Accept json
// @Produce json
// @Router /api/distributions/{id}/verify-receiver [post]
func (c *DistributionController) VerifyReceiver(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var input VerificationInput
	if err := ctx.BodyParser(&input); err != nil {
		return respondError(ctx, validationf("invalid request body"))
	}
	dist, err := c.Service.VerifyReceiver(ctx.UserContext(), id, input)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(dist)
}

// CompleteDistribution finishes the lifecycle.
//
// @Summary Complete a distribution
// @Tags Distributions
// @Produce json
// @Router /api/distributions/{id}/complete [post]
func (c *DistributionController) CompleteDistribution(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	dist, err := c.Service.Complete(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(dist)
}

// GetDiscrepancies lists the documents flagged missing or damaged.
//
// @Summary List a distribution's discrepancies
// @Tags Distributions
// @Produce json
// @Router /api/distributions/{id}/discrepancies [get]
func (c *DistributionController) GetDiscrepancies(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	items, err := c.Service.DiscrepancySummary(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"discrepancies": items,
	})
}
