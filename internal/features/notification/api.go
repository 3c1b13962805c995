package notification

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationAPI struct {
	Controller *NotificationController
	Hub        *Hub
}

func NewNotificationAPI(controller *NotificationController, hub *Hub) *NotificationAPI {
	return &NotificationAPI{Controller: controller, Hub: hub}
}

func (a *NotificationAPI) Setup(app *fiber.App) {
	group := app.Group("/api/notifications")

	group.Get("/", a.Controller.List)
	group.Get("/unread-count", a.Controller.GetUnreadCount)
	group.Post("/read-all", a.Controller.MarkAllAsRead)
	group.Post("/:id/read", a.Controller.MarkAsRead)

	app.Get("/api/ws", websocket.New(a.Hub.HandleWebSocket))
}
