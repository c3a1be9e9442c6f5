package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/database"
	"reviewhub/internal/config"
	"reviewhub/internal/http-api/cache"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/handler"
	"reviewhub/internal/http-api/mailer"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// Redis is optional; without it ratings are aggregated per request.
	var ratings *cache.RatingCache
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		ratings = cache.NewRatingCache(client, cfg.CacheTTL)
		logger.Info("rating cache enabled")
	} else {
		logger.Warn("REDIS_URL not set, rating cache disabled")
	}

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		mail = mailer.NewLogMailer(logger)
		logger.Warn("SMTP_HOST not set, confirm codes go to the log")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, mail, cfg)
	userService := service.NewUserService(userRepo, mail)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, ratings, logger)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, ratings, logger)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	if err := bootstrapAdmin(context.Background(), cfg, userRepo, userService, logger); err != nil {
		logger.Error("bootstrap admin failed", "error", err)
		os.Exit(1)
	}

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuthMiddleware(authService))

	// Rate limit only the code-issuance surface.
	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthRateBurst)
	authGroup := api.Group("")
	authGroup.Use(authLimiter.Handler())
	handler.NewAuthHandler(authService).RegisterRoutes(authGroup)

	handler.NewCategoryHandler(categoryService).RegisterRoutes(api)
	handler.NewGenreHandler(genreService).RegisterRoutes(api)
	handler.NewTitleHandler(titleService).RegisterRoutes(api)
	handler.NewReviewHandler(reviewService).RegisterRoutes(api)
	handler.NewCommentHandler(commentService).RegisterRoutes(api)
	handler.NewUserHandler(userService).RegisterRoutes(api, middleware.AuthMiddleware(authService))

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("http server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

// bootstrapAdmin ensures the configured admin account exists. The account
// confirms through email like everyone else; only the role is
// pre-assigned.
func bootstrapAdmin(
	ctx context.Context,
	cfg *config.Config,
	userRepo repository.UserRepository,
	userService service.UserService,
	logger *slog.Logger,
) error {
	if cfg.BootstrapAdminUsername == "" {
		return nil
	}

	if _, err := userRepo.FindByUsername(ctx, cfg.BootstrapAdminUsername); err == nil {
		return nil
	}

	user, err := userService.Create(ctx, dto.CreateUserRequest{
		Username: cfg.BootstrapAdminUsername,
		Email:    cfg.BootstrapAdminEmail,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameInUse) || errors.Is(err, service.ErrEmailInUse) {
			return nil
		}
		return err
	}

	user.Superuser = true
	if err := userRepo.Update(ctx, user); err != nil {
		return err
	}
	logger.Info("bootstrap admin created", "username", user.Username)
	return nil
}
