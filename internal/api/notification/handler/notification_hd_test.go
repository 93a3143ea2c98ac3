package notificationHandler

import (
	"NutriVision/internal/api/notification"
	"NutriVision/internal/entity"
	"NutriVision/internal/middleware"
	"NutriVision/pkg/notifier"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gorillaws "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func newTestApp(t *testing.T) (*fiber.App, notifier.INotifier) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	n := notifier.New(logger)
	t.Cleanup(n.Close)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	New(logger, middleware.New(logger, middleware.Config{}), n).Start(app.Group("/api/v1"))
	return app, n
}

func TestListAndDismiss(t *testing.T) {
	app, n := newTestApp(t)
	first := n.Success("Detection complete! Found 2 ingredients.")
	n.Error("Please select a valid image file (JPG, PNG, WebP)")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/notifications", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	var out notification.NotificationListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(out.Data) != 2 || out.Data[0].ID != first.ID {
		t.Fatalf("Unexpected notifications %+v", out.Data)
	}

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/notifications/"+first.ID, nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}
	if len(n.Active()) != 1 {
		t.Errorf("Expected one notification left, got %d", len(n.Active()))
	}

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/notifications/"+first.ID, nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for a dismissed id, got %d", resp.StatusCode)
	}
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/notifications/ws", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("Expected 426, got %d", resp.StatusCode)
	}
}

func TestWebSocketStream(t *testing.T) {
	app, n := newTestApp(t)
	existing := n.Network("Unable to connect to the AI service.")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.ShutdownWithTimeout(time.Second) })

	conn, _, err := gorillaws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/notifications/ws", nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snapshot notification.SnapshotMessage
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if snapshot.Event != notification.SnapshotEvent || len(snapshot.Notifications) != 1 || snapshot.Notifications[0].ID != existing.ID {
		t.Fatalf("Unexpected snapshot %+v", snapshot)
	}

	added := n.Success("Detection complete! Found 1 ingredients.")

	var event entity.NotificationEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if event.Event != entity.NotificationAdded || event.Notification.ID != added.ID {
		t.Errorf("Unexpected event %+v", event)
	}

	n.Dismiss(added.ID)
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if event.Event != entity.NotificationDismissed || event.Notification.ID != added.ID {
		t.Errorf("Unexpected event %+v", event)
	}
}
