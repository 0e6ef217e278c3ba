package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kaizen-ideas/internal/config"
	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/handler"
	"kaizen-ideas/internal/middleware"
	"kaizen-ideas/internal/repository"
	"kaizen-ideas/internal/service"
	"kaizen-ideas/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg, logger.Named("minio"))
	if err != nil {
		logger.Warn("failed to connect to minio, image uploads disabled", zap.Error(err))
		minioClient = nil
	}

	repos := repository.NewRepositories(db)
	services, err := service.NewServices(repos, redisClient, minioClient, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build services", zap.Error(err))
	}
	handlers := handler.NewHandlers(services, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if services.Relay != nil {
		go services.Relay.Run(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: middleware.ErrorHandler(logger.Named("http")),
		BodyLimit:    int(cfg.MaxImageSize)*max(cfg.MaxImagesPerIdea, 1) + 1<<20,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger.Named("access")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use("/ws", h.Live.Upgrade, middleware.AuthRequired(authService))
	app.Get("/ws", h.Live.Stream())

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/send-otp", h.Auth.SendOTP)
	authGroup.Post("/verify-otp", h.Auth.VerifyOTP)

	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/profile", h.Auth.Profile)
	protected.Post("/auth/logout", h.Auth.Logout)

	reviewer := middleware.RequireRole(domain.RoleReviewer, domain.RoleAdmin)
	admin := middleware.RequireRole(domain.RoleAdmin)

	ideas := protected.Group("/ideas")
	ideas.Post("/", h.Idea.Submit)
	ideas.Get("/", h.Idea.List)
	ideas.Get("/mine", h.Idea.ListMine)
	ideas.Get("/stats", h.Idea.Stats)
	ideas.Get("/:id", h.Idea.Get)
	ideas.Patch("/:id/status", reviewer, h.Idea.ChangeStatus)
	ideas.Put("/:id", h.Idea.Edit)
	ideas.Delete("/:id", h.Idea.Delete)

	users := protected.Group("/users")
	users.Get("/leaderboard", h.User.Leaderboard)
	users.Post("/recalculate-credit-points", admin, h.User.RecalculateAll)
	users.Post("/", admin, h.User.Create)
	users.Get("/", admin, h.User.List)
	users.Get("/:id", admin, h.User.Get)
	users.Put("/:id", admin, h.User.Update)
	users.Delete("/:id", admin, h.User.Deactivate)
	users.Post("/:id/recalculate-credit-points", admin, h.User.Recalculate)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/read-all", h.Notification.MarkAllAsRead)
}
