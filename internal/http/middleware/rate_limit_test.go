package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestLimiterKeyUsesClientIP(t *testing.T) {
	app := fiber.New()

	var gotKey, gotIP string
	app.Get("/", func(c *fiber.Ctx) error {
		gotKey = limiterKey("ratelimit", c)
		gotIP = c.IP()
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(APIKeyHeader, "attacker-chosen-value")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if gotKey != "ratelimit:"+gotIP {
		t.Fatalf("expected key derived from client IP, got %q", gotKey)
	}
	if strings.Contains(gotKey, "attacker-chosen-value") {
		t.Fatalf("request header leaked into limiter key: %q", gotKey)
	}
}
