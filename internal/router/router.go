package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aula-labs/aula-api/internal/config"
	"github.com/aula-labs/aula-api/internal/handler"
	"github.com/aula-labs/aula-api/internal/middleware"
	"github.com/aula-labs/aula-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	LogHandler          *handler.LogHandler
	CourseHandler       *handler.CourseHandler
	UnitHandler         *handler.UnitHandler
	GroupHandler        *handler.GroupHandler
	UserHandler         *handler.UserHandler
	EventHandler        *handler.EventHandler
	DiscussionHandler   *handler.DiscussionHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	staffOnly := middleware.RequireRole("admin", "teacher")

	// Activity log: listing and the live stream are open to any authenticated
	// user; undo and purge require staff roles.
	if deps.LogHandler != nil {
		logs := app.Group("/api/v2/logs", jwtMiddleware, middleware.RateLimit("logs", 30, time.Minute))
		deps.LogHandler.Register(logs, staffOnly)
	}

	// Catalogue: courses, intakes, units
	if deps.CourseHandler != nil {
		courses := app.Group("/api/v2/courses", jwtMiddleware, staffOnly)
		deps.CourseHandler.Register(courses)
	}
	if deps.UnitHandler != nil {
		units := app.Group("/api/v2/units", jwtMiddleware, staffOnly)
		deps.UnitHandler.Register(units)
	}

	// Groups
	if deps.GroupHandler != nil {
		groups := app.Group("/api/v2/groups", jwtMiddleware, staffOnly)
		deps.GroupHandler.Register(groups)
	}

	// Accounts
	if deps.UserHandler != nil {
		users := app.Group("/api/v2/users", jwtMiddleware, middleware.RequireRole("admin"))
		deps.UserHandler.Register(users)
	}

	// Calendar events
	if deps.EventHandler != nil {
		events := app.Group("/api/v2/events", jwtMiddleware, staffOnly)
		deps.EventHandler.Register(events)
	}

	// Communication
	if deps.DiscussionHandler != nil {
		discussions := app.Group("/api/v2/discussions", jwtMiddleware)
		deps.DiscussionHandler.Register(discussions)
	}
	if deps.NotificationHandler != nil {
		notifications := app.Group("/api/v2/notifications", jwtMiddleware, staffOnly)
		deps.NotificationHandler.Register(notifications)
	}
}
