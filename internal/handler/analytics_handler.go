package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/centralms/lms-api/internal/middleware"
	"github.com/centralms/lms-api/internal/models"
	"github.com/centralms/lms-api/internal/service"
	"github.com/centralms/lms-api/internal/utils"
)

// AnalyticsHandler exposes progress, performance and leaderboard reads.
type AnalyticsHandler struct {
	analytics   service.AnalyticsService
	leaderboard service.LeaderboardService
	logger      zerolog.Logger
}

// NewAnalyticsHandler builds an analytics handler instance.
func NewAnalyticsHandler(analytics service.AnalyticsService, leaderboard service.LeaderboardService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics:   analytics,
		leaderboard: leaderboard,
		logger:      logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register attaches analytics routes to the given protected router.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	teacherOnly := middleware.RequireRole(string(models.RoleTeacher))
	studentOnly := middleware.RequireRole(string(models.RoleStudent))

	router.Get("/leaderboard", h.getLeaderboard)
	router.Get("/students/me/progress", studentOnly, h.courseProgress)
	router.Get("/students/me/dashboard", studentOnly, h.studentDashboard)
	router.Get("/students/me/points", studentOnly, h.points)
	router.Get("/courses/:id/performance", teacherOnly, h.teacherPerformance)
}

func (h *AnalyticsHandler) courseProgress(c *fiber.Ctx) error {
	progress, err := h.analytics.CourseProgress(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "progress retrieved", progress)
}

func (h *AnalyticsHandler) studentDashboard(c *fiber.Ctx) error {
	dashboard, err := h.analytics.StudentDashboard(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *AnalyticsHandler) points(c *fiber.Ctx) error {
	points, err := h.leaderboard.Points(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "points retrieved", fiber.Map{"points": points})
}

func (h *AnalyticsHandler) teacherPerformance(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	performance, err := h.analytics.TeacherPerformance(c.Context(), userIDFromContext(c), courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "performance retrieved", performance)
}

func (h *AnalyticsHandler) getLeaderboard(c *fiber.Ctx) error {
	entries, err := h.leaderboard.Leaderboard(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", entries)
}

func (h *AnalyticsHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, "permission denied")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
