package handler

import (
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/centralms/lms-api/internal/dto"
	"github.com/centralms/lms-api/internal/middleware"
	"github.com/centralms/lms-api/internal/models"
	"github.com/centralms/lms-api/internal/service"
	"github.com/centralms/lms-api/internal/utils"
)

// CourseworkHandler manages assignment, exam and note endpoints.
type CourseworkHandler struct {
	service service.CourseworkService
	logger  zerolog.Logger
}

// NewCourseworkHandler builds a coursework handler instance.
func NewCourseworkHandler(service service.CourseworkService, logger zerolog.Logger) *CourseworkHandler {
	return &CourseworkHandler{
		service: service,
		logger:  logger.With().Str("component", "coursework_handler").Logger(),
	}
}

// RegisterCourseRoutes attaches per-course coursework routes.
func (h *CourseworkHandler) RegisterCourseRoutes(router fiber.Router) {
	teacherOnly := middleware.RequireRole(string(models.RoleTeacher))

	router.Get("/:id/assignments", h.listAssignments)
	router.Post("/:id/assignments", teacherOnly, h.createAssignment)
	router.Get("/:id/exams", h.listExams)
	router.Post("/:id/exams", teacherOnly, h.createExam)
	router.Get("/:id/notes", h.listNotes)
	router.Post("/:id/notes", teacherOnly, h.uploadNote)
}

// RegisterTeacherRoutes attaches the cross-course teacher listings.
func (h *CourseworkHandler) RegisterTeacherRoutes(router fiber.Router) {
	router.Get("/assignments", h.listTeacherAssignments)
	router.Get("/exams", h.listTeacherExams)
}

func (h *CourseworkHandler) createAssignment(c *fiber.Ctx) error {
	courseID, payload, file, err := h.parseMaterial(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignment, err := h.service.CreateAssignment(c.Context(), userIDFromContext(c), courseID, payload, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

func (h *CourseworkHandler) createExam(c *fiber.Ctx) error {
	courseID, payload, file, err := h.parseMaterial(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	exam, err := h.service.CreateExam(c.Context(), userIDFromContext(c), courseID, payload, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exam created", exam)
}

func (h *CourseworkHandler) uploadNote(c *fiber.Ctx) error {
	courseID, payload, file, err := h.parseMaterial(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	note, err := h.service.UploadNote(c.Context(), userIDFromContext(c), courseID, payload, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note uploaded", note)
}

// parseMaterial extracts the multipart payload common to the three create
// endpoints. The document part is optional; its absence means inline text.
func (h *CourseworkHandler) parseMaterial(c *fiber.Ctx) (uint, dto.MaterialCreateRequest, *multipart.FileHeader, error) {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return 0, dto.MaterialCreateRequest{}, nil, err
	}

	payload := dto.MaterialCreateRequest{
		Title: c.FormValue("title"),
		Body:  c.FormValue("body"),
	}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	return courseID, payload, file, nil
}

func (h *CourseworkHandler) listAssignments(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignments, err := h.service.ListAssignments(c.Context(), courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *CourseworkHandler) listExams(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	exams, err := h.service.ListExams(c.Context(), courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exams retrieved", exams)
}

func (h *CourseworkHandler) listNotes(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	notes, err := h.service.ListNotes(c.Context(), courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "notes retrieved", notes)
}

func (h *CourseworkHandler) listTeacherAssignments(c *fiber.Ctx) error {
	assignments, err := h.service.ListAssignmentsByTeacher(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *CourseworkHandler) listTeacherExams(c *fiber.Ctx) error {
	exams, err := h.service.ListExamsByTeacher(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exams retrieved", exams)
}

func (h *CourseworkHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, "permission denied")
	case errors.Is(err, service.ErrUnsupportedFile):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
