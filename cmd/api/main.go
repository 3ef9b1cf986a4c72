package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/centralms/lms-api/internal/config"
	"github.com/centralms/lms-api/internal/database"
	"github.com/centralms/lms-api/internal/handler"
	"github.com/centralms/lms-api/internal/middleware"
	"github.com/centralms/lms-api/internal/repository"
	"github.com/centralms/lms-api/internal/router"
	"github.com/centralms/lms-api/internal/service"
	"github.com/centralms/lms-api/pkg/blobstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	blobs, err := blobstore.New(cfg.StorageDir, logger)
	if err != nil {
		log.Fatalf("failed to create blob store: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

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

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, assignmentRepo, userRepo, validate, logger)
	courseworkService := service.NewCourseworkService(courseRepo, assignmentRepo, examRepo, noteRepo, validate, blobs, logger)
	submissionService := service.NewSubmissionService(submissionRepo, examSubmissionRepo, assignmentRepo, examRepo, courseRepo, enrollmentRepo, validate, notifier, logger)
	leaderboardService := service.NewLeaderboardService(pointsRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	analyticsService := service.NewAnalyticsService(courseRepo, enrollmentRepo, assignmentRepo, submissionRepo, examSubmissionRepo, pointsRepo, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)
	courseworkHandler := handler.NewCourseworkHandler(courseworkService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, leaderboardService, logger)
	materialHandler := handler.NewMaterialHandler(blobs, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		CourseHandler:     courseHandler,
		CourseworkHandler: courseworkHandler,
		SubmissionHandler: submissionHandler,
		AnalyticsHandler:  analyticsHandler,
		MaterialHandler:   materialHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
