package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/centralms/lms-api/internal/config"
	"github.com/centralms/lms-api/internal/handler"
	"github.com/centralms/lms-api/internal/middleware"
	"github.com/centralms/lms-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	CourseHandler     *handler.CourseHandler
	CourseworkHandler *handler.CourseworkHandler
	SubmissionHandler *handler.SubmissionHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	MaterialHandler   *handler.MaterialHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Public routes
// (health, metrics, auth) are registered before the JWT guard; everything
// else sits behind it.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.ScrapeHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	protected := api.Group("", jwtMiddleware)

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterProtected(protected)
	}

	if deps.CourseHandler != nil {
		courses := protected.Group("/courses")
		deps.CourseHandler.Register(courses)

		if deps.CourseworkHandler != nil {
			deps.CourseworkHandler.RegisterCourseRoutes(courses)
			deps.CourseworkHandler.RegisterTeacherRoutes(protected.Group("/teacher"))
		}
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(protected)
	}

	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.Register(protected)
	}

	if deps.MaterialHandler != nil {
		deps.MaterialHandler.Register(protected)
	}
}
