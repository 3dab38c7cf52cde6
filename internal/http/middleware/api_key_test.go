package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type stubAPIKeyService struct {
	valid bool
	err   error
}

func (s *stubAPIKeyService) Generate(ctx context.Context) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubAPIKeyService) Validate(ctx context.Context, key string) (bool, error) {
	return s.valid, s.err
}

func (s *stubAPIKeyService) Revoke(ctx context.Context, key string) error {
	return errors.New("not implemented")
}

func newAPIKeyApp(svc *stubAPIKeyService) *fiber.App {
	app := fiber.New()
	app.Use(APIKeyRequired(svc, nil))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAPIKeyRequired_MissingHeader(t *testing.T) {
	app := newAPIKeyApp(&stubAPIKeyService{valid: true})

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", resp.StatusCode)
	}
}

func TestAPIKeyRequired_InvalidKey(t *testing.T) {
	app := newAPIKeyApp(&stubAPIKeyService{valid: false})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(APIKeyHeader, "bm90LXZhbGlk")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown key, got %d", resp.StatusCode)
	}
}

func TestAPIKeyRequired_ValidKey(t *testing.T) {
	app := newAPIKeyApp(&stubAPIKeyService{valid: true})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(APIKeyHeader, "dmFsaWQta2V5")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for valid key, got %d", resp.StatusCode)
	}
}

func TestAPIKeyRequired_StorageErrorFailsClosed(t *testing.T) {
	app := newAPIKeyApp(&stubAPIKeyService{err: errors.New("connection refused")})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(APIKeyHeader, "dmFsaWQta2V5")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 when validation errors, got %d", resp.StatusCode)
	}
}
