package notificationHandler

import (
	"NutriVision/internal/middleware"
	"NutriVision/pkg/notifier"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type NotificationHandler struct {
	log        *logrus.Logger
	middleware middleware.Middleware
	notifier   notifier.INotifier
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	notifier notifier.INotifier,
) *NotificationHandler {
	return &NotificationHandler{
		log:        log,
		middleware: middleware,
		notifier:   notifier,
	}
}

func (h *NotificationHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	notifications := srv.Group("/notifications")
	notifications.Use("/ws", wsMiddleware)
	notifications.Get("/ws", websocket.New(h.handleWebSocket))
	notifications.Delete("/:id", h.Dismiss)
	srv.Get("/notifications", h.List)
}
