package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	verifier *services.TokenVerifier,
	healthHandler *handlers.HealthHandler,
	progressHandler *handlers.ProgressHandler,
	moderationHandler *handlers.ModerationHandler,
	adminHandler *handlers.AdminHandler,
) {
	// Per-IP rate limit
	if cfg.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:               cfg.RateLimitPerMinute,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
			Next:              func(c *fiber.Ctx) bool { return c.Path() == "/health" },
		}))
	}

	app.Get("/health", healthHandler.Check)

	authenticated := middleware.Authenticated(verifier)

	// Learner endpoints
	app.Get("/progress", authenticated, progressHandler.GetProgress)
	app.Post("/progress", authenticated, progressHandler.SetProgress)
	app.Post("/reports", authenticated, moderationHandler.CreateReport)

	// Staff panel (token + admin/moderator profile required)
	admin := app.Group("/admin", authenticated, middleware.StaffRequired(db))
	admin.Get("/stats", adminHandler.SystemStats)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Patch("/users/:userId", adminHandler.UpdateUser)
	admin.Get("/reports", moderationHandler.ListReports)
	admin.Patch("/reports/:reportId", moderationHandler.ResolveReport)
	admin.Get("/community-stats", adminHandler.CommunityStats)
	admin.Get("/logs", adminHandler.ListLogs)
}
