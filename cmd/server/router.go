package main

import (
	"context"
	"strings"
	"time"

	"clipmark/cmd/server/handlers"
	annotationsHandlers "clipmark/cmd/server/handlers/annotations"
	"clipmark/cmd/server/handlers/auth"
	"clipmark/cmd/server/handlers/httperr"
	videosHandlers "clipmark/cmd/server/handlers/videos"
	"clipmark/cmd/server/middlewares"
	"clipmark/internal/clients/mongo"
	"clipmark/internal/config"
	"clipmark/internal/logger"
	annotationsServices "clipmark/internal/services/annotations"
	authServices "clipmark/internal/services/auth"
	videosServices "clipmark/internal/services/videos"
	"clipmark/internal/utils/crypto"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	RateLimitExpiration = 1 * time.Minute
)

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(ctx context.Context, cfg config.Config) *fiber.App {

	// Initialize validator and register password validation
	v := validator.New()
	if err := crypto.RegisterPasswordValidator(v); err != nil {
		logger.L().Error("failed to register password validator", "err", err)
		panic(err)
	}

	// Validate JWT algorithm at boot
	alg := strings.ToUpper(cfg.JWTAlgorithm)
	switch alg {
	case "HS256":
		// Valid algorithm
	default:
		logger.L().Error(authServices.ErrUnsupportedJWTAlg.Error(), "algorithm", cfg.JWTAlgorithm)
		panic(authServices.ErrUnsupportedJWTAlg.Error() + ": " + cfg.JWTAlgorithm)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		Immutable:    true, // make Fiber copy all request-derived strings
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Authorization",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app)
	}

	// Health check endpoint, outside versioned API to appease scanners and to avoid logging
	app.Get("/healthz", handlers.Healthz)

	var v1 fiber.Router
	if cfg.RequestLoggingEnabled {
		v1 = app.Group("/api/v1", fiberlogger.New())
		logger.L().Info("request logging enabled")
	} else {
		v1 = app.Group("/api/v1")
		logger.L().Info("request logging disabled")
	}

	jwtMiddleware := middlewares.JWT(cfg)
	optionalJWTMiddleware := middlewares.OptionalJWT(cfg)

	limiterMW := middlewares.BuildRateLimiter(cfg.SignInRatePerMin, RateLimitExpiration)

	authGrp := v1.Group("/auth", limiterMW)

	usersRepo := mongo.NewUsersRepo(ctx, mongo.DB())
	authSvc := authServices.NewService(usersRepo, cfg, logger.L())
	authHandlers := auth.NewHandlers(authSvc, v)

	authGrp.Post("/sign-up", authHandlers.SignUp)
	authGrp.Post("/sign-in", authHandlers.SignIn)

	// Video routes
	videosRepo, err := mongo.NewVideosRepo(ctx, mongo.DB())
	if err != nil {
		logger.L().Error(videosServices.ErrCreateVideosRepo.Error(), "error", err)
		panic(err)
	}
	videosSvc := videosServices.NewService(videosRepo, logger.L())
	videosH := videosHandlers.NewHandlers(videosSvc)

	v1.Put("/videos/:public_id", jwtMiddleware, videosH.Register)

	// Annotation routes
	annotationsRepo, err := mongo.NewAnnotationsRepo(ctx, mongo.DB())
	if err != nil {
		logger.L().Error(annotationsServices.ErrCreateAnnotationsRepo.Error(), "error", err)
		panic(err)
	}
	hub := annotationsServices.NewHub(cfg.WSOutboxBuffer)
	annotationsSvc := annotationsServices.NewService(annotationsRepo, videosSvc, hub, logger.L())
	annotationsH := annotationsHandlers.NewHandlers(annotationsSvc, v)

	v1.Post("/videos/:public_id/annotations", jwtMiddleware, annotationsH.Add)
	v1.Get("/videos/:public_id/annotations", optionalJWTMiddleware, annotationsH.List)
	v1.Post("/annotations/:id/publish", jwtMiddleware, annotationsH.Publish)
	v1.Delete("/annotations/:id", jwtMiddleware, annotationsH.Delete)

	// WebSocket routes
	wsHandlers := annotationsHandlers.NewWebSocketHandlers(hub, videosSvc, cfg.JWTSecret, cfg.WSMaxSessionSec)
	app.Use("/ws", annotationsHandlers.LogWSConnections())
	app.Get("/ws/videos/:public_id/stream", wsHandlers.WSUpgrade, websocket.New(wsHandlers.WSViewerStream))

	// User profile endpoint (for testing JWT middleware and for future use)
	v1.Get("/me", jwtMiddleware, handlers.Me)

	return app
}
