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

	"github.com/aula-labs/aula-api/internal/config"
	"github.com/aula-labs/aula-api/internal/database"
	"github.com/aula-labs/aula-api/internal/handler"
	"github.com/aula-labs/aula-api/internal/middleware"
	"github.com/aula-labs/aula-api/internal/models"
	"github.com/aula-labs/aula-api/internal/repository"
	"github.com/aula-labs/aula-api/internal/router"
	"github.com/aula-labs/aula-api/internal/service"
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

	if err := db.AutoMigrate(
		&models.LogEntry{},
		&models.User{},
		&models.Course{},
		&models.Unit{},
		&models.CourseGroup{},
		&models.UserCourseGroup{},
		&models.Event{},
		&models.UserEvent{},
		&models.SessionUser{},
		&models.Discussion{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NatsURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	defer natsConn.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	logRepo := repository.NewLogRepository(db)
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	eventRepo := repository.NewEventRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	streamCtx, stopStream := context.WithCancel(context.Background())
	defer stopStream()

	renderer := service.NewLogRenderer(userRepo, courseRepo, unitRepo, groupRepo, discussionRepo, notificationRepo, eventRepo, logger)
	streamer := service.NewLogStreamer(natsConn, cfg.LogStreamTopic, logger)
	streamer.Start(streamCtx)

	logService := service.NewLogService(logRepo, renderer, streamer, redisClient, cfg.LogCacheTTL, logger)
	undoService := service.NewUndoService(logRepo, logService, userRepo, courseRepo, unitRepo, groupRepo, eventRepo, sessionRepo, discussionRepo, notificationRepo, logger)
	courseService := service.NewCourseService(courseRepo, unitRepo, sessionRepo, eventRepo, logService, validate, logger)
	unitService := service.NewUnitService(unitRepo, courseRepo, sessionRepo, eventRepo, logService, validate, logger)
	groupService := service.NewGroupService(groupRepo, courseRepo, logService, validate, logger)
	userService := service.NewUserService(userRepo, logService, validate, logger)
	eventService := service.NewEventService(eventRepo, logService, validate, logger)
	discussionService := service.NewDiscussionService(discussionRepo, logService, validate, logger)
	notificationService := service.NewNotificationService(notificationRepo, logService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		LogHandler:          handler.NewLogHandler(logService, undoService, streamer, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, logger),
		UnitHandler:         handler.NewUnitHandler(unitService, logger),
		GroupHandler:        handler.NewGroupHandler(groupService, logger),
		UserHandler:         handler.NewUserHandler(userService, logger),
		EventHandler:        handler.NewEventHandler(eventService, logger),
		DiscussionHandler:   handler.NewDiscussionHandler(discussionService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopStream)
}

func waitForShutdown(app *fiber.App, stopStream context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopStream()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
