package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/config"
	"github.com/centralms/lms-api/internal/database"
	"github.com/centralms/lms-api/internal/dto"
	"github.com/centralms/lms-api/internal/handler"
	"github.com/centralms/lms-api/internal/middleware"
	"github.com/centralms/lms-api/internal/repository"
	"github.com/centralms/lms-api/internal/router"
	"github.com/centralms/lms-api/internal/service"
	"github.com/centralms/lms-api/pkg/blobstore"
)

const testJWTSecret = "handler-test-secret"

// setupApp wires the full application against an in-memory database and a
// temporary blob store, using the real JWT middleware.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	blobs, err := blobstore.New(t.TempDir(), logger)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	examRepo := repository.NewExamRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	examSubmissionRepo := repository.NewExamSubmissionRepository(db)
	pointsRepo := repository.NewPointsRepository(db)

	notifier := service.NewLogNotifier(logger)

	authService := service.NewAuthService(userRepo, validate, testJWTSecret, time.Hour, logger)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, assignmentRepo, userRepo, validate, logger)
	courseworkService := service.NewCourseworkService(courseRepo, assignmentRepo, examRepo, noteRepo, validate, blobs, logger)
	submissionService := service.NewSubmissionService(submissionRepo, examSubmissionRepo, assignmentRepo, examRepo, courseRepo, enrollmentRepo, validate, notifier, logger)
	leaderboardService := service.NewLeaderboardService(pointsRepo, nil, time.Minute, logger)
	analyticsService := service.NewAnalyticsService(courseRepo, enrollmentRepo, assignmentRepo, submissionRepo, examSubmissionRepo, pointsRepo, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "lms-test", JWTSecret: testJWTSecret}, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		CourseworkHandler: handler.NewCourseworkHandler(courseworkService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		AnalyticsHandler:  handler.NewAnalyticsHandler(analyticsService, leaderboardService, logger),
		MaterialHandler:   handler.NewMaterialHandler(blobs, logger),
		JWTMiddleware:     middleware.JWTProtected(testJWTSecret),
	})

	return app, db
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// registerAndLogin signs a user up through the API and returns the token.
func registerAndLogin(t *testing.T, app *fiber.App, username, role string) (uint, string) {
	t.Helper()

	signupResp := doJSON(t, app, "POST", "/api/v1/auth/signup", "", dto.SignUpRequest{
		Username: username,
		Password: "pw123",
		Role:     role,
	})
	require.Equal(t, fiber.StatusCreated, signupResp.StatusCode)

	var signupBody struct {
		Success bool             `json:"success"`
		Data    dto.UserResponse `json:"data"`
	}
	decodeResponse(t, signupResp, &signupBody)
	require.True(t, signupBody.Success)

	loginResp := doJSON(t, app, "POST", "/api/v1/auth/login", "", dto.LogInRequest{
		Username: username,
		Password: "pw123",
		Role:     role,
	})
	require.Equal(t, fiber.StatusOK, loginResp.StatusCode)

	var loginBody struct {
		Success bool              `json:"success"`
		Data    dto.LogInResponse `json:"data"`
	}
	decodeResponse(t, loginResp, &loginBody)
	require.True(t, loginBody.Success)
	require.NotEmpty(t, loginBody.Data.Token)

	return signupBody.Data.ID, loginBody.Data.Token
}
