package context

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "01HZXABC")
	if id := GetRequestID(ctx); id != "01HZXABC" {
		t.Errorf("Expected 01HZXABC, got %s", id)
	}
	if id := GetRequestID(context.Background()); id != "unknown" {
		t.Errorf("Expected unknown, got %s", id)
	}
}

func TestFromFiberCtx(t *testing.T) {
	app := fiber.New()
	app.Get("/locals", func(c *fiber.Ctx) error {
		c.Locals(RequestIDHeader, "from-locals")
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})
	app.Get("/header", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})

	tests := []struct {
		path     string
		header   string
		expected string
	}{
		{"/locals", "", "from-locals"},
		{"/header", "from-header", "from-header"},
		{"/header", "", "unknown"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		if tt.header != "" {
			req.Header.Set(RequestIDHeader, tt.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		body := make([]byte, 64)
		n, _ := resp.Body.Read(body)
		if got := string(body[:n]); got != tt.expected {
			t.Errorf("%s with header %q: expected %s, got %s", tt.path, tt.header, tt.expected, got)
		}
	}
}
