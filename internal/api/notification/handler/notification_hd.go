package notificationHandler

import (
	"NutriVision/internal/api/notification"
	"NutriVision/pkg/handlerUtil"
	"NutriVision/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

func (h *NotificationHandler) List(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, notification.NotificationListResponse{
		Data: h.notifier.Active(),
	})
}

func (h *NotificationHandler) Dismiss(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	if !h.notifier.Dismiss(ctx.Params("id")) {
		return errHandler.Handle(ctx, requestID, notification.ErrNotificationNotFound, ctx.Path(), "dismiss_notification")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

func (h *NotificationHandler) handleWebSocket(c *websocket.Conn) {
	h.log.Info("Notification WebSocket client connected")
	defer h.log.Info("Notification WebSocket client disconnected")

	snapshot, events, cancel := h.notifier.SubscribeWithSnapshot()
	defer cancel()

	if err := h.write(c, notification.SnapshotMessage{
		Event:         notification.SnapshotEvent,
		Notifications: snapshot,
	}); err != nil {
		h.log.Errorf("Error writing notification snapshot: %v", err)
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.WithFields(log.Fields{"error": err.Error()}).Warn("Notification WebSocket read failed")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(c, event); err != nil {
				h.log.Errorf("Error writing notification event: %v", err)
				return
			}
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *NotificationHandler) write(c *websocket.Conn, v interface{}) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.WriteJSON(v)
}
