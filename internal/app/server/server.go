package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/ClipStash/internal/app/service"
	inthttp "github.com/sifan077/ClipStash/internal/http/handler"
	"github.com/sifan077/ClipStash/internal/http/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles everything required by the HTTP server.
type Dependencies struct {
	Logger        *zap.Logger
	Redis         *redis.Client
	ClipService   service.ClipService
	APIKeyService service.APIKeyService
	HitCounter    *service.HitCounter
	ViewPublisher *service.ViewPublisher
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	app := fiber.New()

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.CORS())
	if s.deps.Redis != nil {
		s.app.Use(middleware.RateLimit(s.deps.Redis, middleware.DefaultRateLimitConfig(), s.deps.Logger))
	}

	s.app.Get("/health", s.health)

	api := s.app.Group("/api")

	keyHandler := inthttp.NewKeyHandler(inthttp.KeyDeps{
		Logger: s.deps.Logger,
		Keys:   s.deps.APIKeyService,
	})
	keyHandler.Register(api)

	// Clip routes require a valid API key; key issuance does not.
	s.app.Use("/api/clip", middleware.APIKeyRequired(s.deps.APIKeyService, s.deps.Logger))
	clipHandler := inthttp.NewClipHandler(inthttp.ClipDeps{
		Logger:        s.deps.Logger,
		ClipService:   s.deps.ClipService,
		HitCounter:    s.deps.HitCounter,
		ViewPublisher: s.deps.ViewPublisher,
	})
	clipHandler.Register(api)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "ClipStash",
		"status":  "ok",
	})
}
