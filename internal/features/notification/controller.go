package notification

import (
	"strconv"

	"go-docdist/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationController struct {
	Service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{Service: service}
}

func actorDepartment(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok || claims == nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "missing actor identity")
	}
	id, err := primitive.ObjectIDFromHex(claims.DepartmentID)
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "actor has no valid department")
	}
	return id, nil
}

// List godoc
//
// @Summary List the actor department's notifications
// @Tags Notifications
// @Produce json
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	departmentID, err := actorDepartment(ctx)
	if err != nil {
		return err
	}

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "10"), 10, 64)

	notifications, total, err := c.Service.ListByDepartment(ctx.UserContext(), departmentID, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"data":  notifications,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUnreadCount godoc
//
// @Summary Count unread notifications
// @Tags Notifications
// @Produce json
// @Router /api/notifications/unread-count [get]
func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	departmentID, err := actorDepartment(ctx)
	if err != nil {
		return err
	}

	count, err := c.Service.CountUnread(ctx.UserContext(), departmentID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"count": count})
}

// MarkAsRead godoc
//
// @Summary Mark one notification as read
// @Tags Notifications
// @Produce json
// @Router /api/notifications/{id}/read [post]
func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	departmentID, err := actorDepartment(ctx)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notification id"})
	}

	if err := c.Service.MarkAsRead(ctx.UserContext(), id, departmentID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

// MarkAllAsRead godoc
//
// @Summary Mark every notification as read
// @Tags Notifications
// @Produce json
// @Router /api/notifications/read-all [post]
func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	departmentID, err := actorDepartment(ctx)
	if err != nil {
		return err
	}

	if err := c.Service.MarkAllAsRead(ctx.UserContext(), departmentID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}
