package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/ClipStash/internal/app/domain"
	"github.com/sifan077/ClipStash/internal/app/model"
	"github.com/sifan077/ClipStash/internal/app/repository"
	"github.com/sifan077/ClipStash/internal/app/service"
	"go.uber.org/zap"
)

// PasswordCookie carries the clip password for browser-style session
// continuity; an explicit field in the request body takes precedence.
const PasswordCookie = "password"

// ClipDeps groups dependencies required by clip handlers.
type ClipDeps struct {
	Logger        *zap.Logger
	ClipService   service.ClipService
	HitCounter    *service.HitCounter
	ViewPublisher *service.ViewPublisher
}

// ClipHandler implements the clip API endpoints.
type ClipHandler struct {
	logger    *zap.Logger
	clips     service.ClipService
	hits      *service.HitCounter
	publisher *service.ViewPublisher
}

// NewClipHandler creates a clip handler with the provided dependencies.
func NewClipHandler(deps ClipDeps) *ClipHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClipHandler{
		logger:    logger,
		clips:     deps.ClipService,
		hits:      deps.HitCounter,
		publisher: deps.ViewPublisher,
	}
}

// Register wires clip routes onto the provided router.
func (h *ClipHandler) Register(router fiber.Router) {
	clip := router.Group("/clip")
	{
		clip.Post("/", h.CreateClip)
		clip.Get("/:shortcode", h.GetClip)
		clip.Put("/:shortcode", h.UpdateClip)
	}
}

// ClipRequest represents the request body for creating or updating a clip.
type ClipRequest struct {
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
	Password  string `json:"password,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// ClipResponse represents a clip returned by the API. The password never
// leaves the server; only its presence is reported.
type ClipResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title,omitempty"`
	Content     string     `json:"content"`
	ShortCode   string     `json:"short_code"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	HasPassword bool       `json:"has_password"`
	Hits        int64      `json:"hits"`
}

func newClipResponse(clip *model.Clip) ClipResponse {
	resp := ClipResponse{
		ID:          clip.ID,
		Content:     clip.Content,
		ShortCode:   clip.ShortCode,
		CreatedAt:   clip.CreatedAt,
		ExpiresAt:   clip.ExpiresAt,
		HasPassword: clip.Password != nil,
		Hits:        clip.Hits,
	}
	if clip.Title != nil {
		resp.Title = *clip.Title
	}
	return resp
}

// CreateClip handles POST /api/clip
func (h *ClipHandler) CreateClip(c *fiber.Ctx) error {
	var req ClipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	content, err := domain.NewContent(req.Content)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	expiresAt, err := domain.ParseExpiry(req.ExpiresAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	clip, err := h.clips.CreateClip(h.ctx(c), service.CreateClipInput{
		Title:     domain.NewTitle(req.Title),
		Content:   content,
		Password:  domain.NewPassword(req.Password),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		h.logger.Error("failed to create clip", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create clip",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(newClipResponse(clip))
}

// GetClip handles GET /api/clip/:shortcode
func (h *ClipHandler) GetClip(c *fiber.Ctx) error {
	shortCode := c.Params("shortcode")
	if shortCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "shortcode is required",
		})
	}

	password := c.Query("password")
	if password == "" {
		password = c.Cookies(PasswordCookie)
	}

	clip, err := h.clips.GetClip(h.ctx(c), shortCode, domain.NewPassword(password))
	if err != nil {
		return h.clipError(c, shortCode, err)
	}

	// Hit accounting and view auditing never delay the response.
	h.hits.Hit(shortCode, 1)
	if h.publisher != nil {
		go h.publishView(shortCode, c.IP(), c.Get("User-Agent"))
	}

	return c.JSON(newClipResponse(clip))
}

// UpdateClip handles PUT /api/clip/:shortcode
func (h *ClipHandler) UpdateClip(c *fiber.Ctx) error {
	shortCode := c.Params("shortcode")
	if shortCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "shortcode is required",
		})
	}

	var req ClipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	content, err := domain.NewContent(req.Content)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	expiresAt, err := domain.ParseExpiry(req.ExpiresAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	clip, err := h.clips.UpdateClip(h.ctx(c), shortCode, service.UpdateClipInput{
		Title:     domain.NewTitle(req.Title),
		Content:   content,
		Password:  domain.NewPassword(req.Password),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return h.clipError(c, shortCode, err)
	}

	return c.JSON(newClipResponse(clip))
}

func (h *ClipHandler) clipError(c *fiber.Ctx, shortCode string, err error) error {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		h.logger.Info("clip password mismatch", zap.String("short_code", shortCode))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid password",
		})
	case errors.Is(err, repository.ErrClipNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "clip not found",
		})
	default:
		h.logger.Error("clip request failed", zap.String("short_code", shortCode), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

func (h *ClipHandler) publishView(shortCode, ip, userAgent string) {
	if err := h.publisher.Publish(shortCode, ip, userAgent); err != nil {
		h.logger.Error("failed to publish view event", zap.String("short_code", shortCode), zap.Error(err))
	}
}

func (h *ClipHandler) ctx(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
