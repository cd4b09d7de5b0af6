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
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/rollcall-labs/rollcall-api/internal/config"
	"github.com/rollcall-labs/rollcall-api/internal/database"
	"github.com/rollcall-labs/rollcall-api/internal/handler"
	"github.com/rollcall-labs/rollcall-api/internal/middleware"
	"github.com/rollcall-labs/rollcall-api/internal/models"
	"github.com/rollcall-labs/rollcall-api/internal/repository"
	"github.com/rollcall-labs/rollcall-api/internal/router"
	"github.com/rollcall-labs/rollcall-api/internal/security"
	"github.com/rollcall-labs/rollcall-api/internal/service"
	cloud "github.com/rollcall-labs/rollcall-api/pkg/cloudinary"
	"github.com/rollcall-labs/rollcall-api/pkg/faceclient"
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

	if err := db.AutoMigrate(&models.Faculty{}, &models.Section{}, &models.Student{}, &models.AttendanceLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloud,
		APIKey:    cfg.CloudinaryKey,
		APISecret: cfg.CloudinarySecret,
		Folder:    cfg.CloudinaryFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	faceClient := faceclient.New(cfg.FaceServiceURL, cfg.FaceServiceSkip)

	monitor := buildMonitor(cfg, logger)

	executorCfg := database.DefaultExecutorConfig()
	executorCfg.MaxRetries = cfg.DBMaxRetries
	executor := database.NewExecutor(db, executorCfg, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	facultyRepo := repository.NewFacultyRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	studentRepo := repository.NewStudentRepository(db, executor)
	attendanceRepo := repository.NewAttendanceRepository(executor)

	authService := service.NewAuthService(facultyRepo, validate, cfg.JWTSecret, logger)
	sectionService := service.NewSectionService(sectionRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, sectionRepo, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, redisClient, cfg.SummaryCacheTTL, logger)
	faceService := service.NewFaceService(studentRepo, uploader, faceClient, validate, logger)

	authHandler := handler.NewAuthHandler(authService, monitor, logger)
	sectionHandler := handler.NewSectionHandler(sectionService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, logger)
	faceHandler := handler.NewFaceHandler(faceService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:          &logger,
		Monitor:         monitor,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
	})
	router.Register(app, cfg, router.Dependencies{
		Executor:          executor,
		AuthHandler:       authHandler,
		AttendanceHandler: attendanceHandler,
		SectionHandler:    sectionHandler,
		StudentHandler:    studentHandler,
		FaceHandler:       faceHandler,
		Monitor:           monitor,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildMonitor wires the in-process ring buffer and, when NATS is configured,
// a best-effort forwarder to the external monitoring subject.
func buildMonitor(cfg config.Config, logger zerolog.Logger) *security.Monitor {
	buffer := security.NewRingBuffer(1000)

	var sink security.Sink = buffer
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("security event forwarding disabled, nats unreachable")
		} else {
			sink = security.Fanout(buffer, security.NewNATSForwarder(conn, cfg.SecuritySubject, logger))
		}
	}

	return security.NewMonitor(sink, logger)
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
