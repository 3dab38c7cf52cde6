package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/ClipStash/internal/app/repository"
	"github.com/sifan077/ClipStash/internal/app/service"
	"go.uber.org/zap"
)

// KeyDeps groups dependencies required by API key handlers.
type KeyDeps struct {
	Logger *zap.Logger
	Keys   service.APIKeyService
}

// KeyHandler implements API key issuance and revocation.
type KeyHandler struct {
	logger *zap.Logger
	keys   service.APIKeyService
}

// NewKeyHandler creates a key handler with the provided dependencies.
func NewKeyHandler(deps KeyDeps) *KeyHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyHandler{logger: logger, keys: deps.Keys}
}

// Register wires key routes onto the provided router.
func (h *KeyHandler) Register(router fiber.Router) {
	key := router.Group("/key")
	{
		key.Post("/", h.GenerateKey)
		key.Delete("/", h.RevokeKey)
	}
}

// GenerateKey handles POST /api/key. The returned value is shown exactly
// once; only its presence in the store can be checked afterwards.
func (h *KeyHandler) GenerateKey(c *fiber.Ctx) error {
	key, err := h.keys.Generate(h.ctxOf(c))
	if err != nil {
		h.logger.Error("failed to generate api key", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate api key",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"api_key": key,
	})
}

// RevokeKeyRequest represents the request body for revoking a key.
type RevokeKeyRequest struct {
	Key string `json:"key"`
}

// RevokeKey handles DELETE /api/key.
func (h *KeyHandler) RevokeKey(c *fiber.Ctx) error {
	var req RevokeKeyRequest
	if err := c.BodyParser(&req); err != nil || req.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "key is required",
		})
	}

	if err := h.keys.Revoke(h.ctxOf(c), req.Key); err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "api key not found",
			})
		}
		h.logger.Error("failed to revoke api key", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to revoke api key",
		})
	}

	return c.JSON(fiber.Map{
		"revoked": true,
	})
}

func (h *KeyHandler) ctxOf(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
