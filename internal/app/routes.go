package app

import (
	"path/filepath"
	"strings"
	"time"

	"healthwallet/internal/handlers"
	"healthwallet/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// multipart framing and the text fields of an upload on top of the file itself
const uploadOverhead = 1 << 20

// Router builds the Fiber application serving the API.
func (a *App) Router() *fiber.App {
	router := fiber.New(fiber.Config{
		AppName:               "Health Wallet API",
		BodyLimit:             int(a.Cfg.MaxFileSize) + uploadOverhead,
		ErrorHandler:          handlers.ErrorHandler(a.Cfg.IsDevelopment()),
		DisableStartupMessage: true,
	})

	router.Use(requestid.New())
	router.Use(middleware.RequestLogger(a.Log))
	router.Use(recover.New(recover.Config{EnableStackTrace: a.Cfg.IsDevelopment()}))
	router.Use(corsMiddleware(a.Cfg.AllowedOrigins()))

	// Handlers
	auth := handlers.NewAuthHandler(a.AuthService)
	user := handlers.NewUserHandler(a.UserService)
	report := handlers.NewReportHandler(a.ReportService)
	vital := handlers.NewVitalHandler(a.VitalService)
	share := handlers.NewShareHandler(a.ShareService)
	dashboard := handlers.NewDashboardHandler(a.DashboardService)
	health := handlers.NewHealthHandler(a.DB)

	authRequired := middleware.AuthRequired(a.AuthService)

	api := router.Group("/api")
	health.RegisterRoutes(api)
	auth.RegisterRoutes(api, authLimiter(a.Cfg.AuthRateLimit))
	user.RegisterRoutes(api, authRequired)
	report.RegisterRoutes(api, authRequired)
	vital.RegisterRoutes(api, authRequired)
	share.RegisterRoutes(api, authRequired)
	dashboard.RegisterRoutes(api, authRequired)
	api.Use(routeNotFound)

	if a.Cfg.StaticDir != "" {
		serveClient(router, a.Cfg.StaticDir)
	} else {
		router.Get("/", index)
	}
	router.Use(routeNotFound)

	return router
}

func index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to Health Wallet API",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"auth":      "/api/auth",
			"reports":   "/api/reports",
			"vitals":    "/api/vitals",
			"share":     "/api/share",
			"dashboard": "/api/dashboard",
			"health":    "/api/health",
		},
	})
}

func routeNotFound(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound, "Route not found")
}

// serveClient serves the built single-page client, falling back to
// index.html for client-side routes.
func serveClient(router *fiber.App, dir string) {
	router.Static("/", dir)
	router.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(dir, "index.html"))
	})
}

func corsMiddleware(origins []string) fiber.Handler {
	credentials := len(origins) > 0
	for _, o := range origins {
		if o == "*" {
			credentials = false
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: credentials,
	})
}

// authLimiter throttles register and login per client IP. A non-positive
// limit disables it.
func authLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later",
			})
		},
	})
}
