package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/sona-group/institution-cms/internal/admin"
	"github.com/sona-group/institution-cms/internal/config"
	"github.com/sona-group/institution-cms/internal/database"
	"github.com/sona-group/institution-cms/internal/health"
	"github.com/sona-group/institution-cms/internal/institution"
	"github.com/sona-group/institution-cms/internal/logging"
	"github.com/sona-group/institution-cms/internal/media"
	"github.com/sona-group/institution-cms/internal/metrics"
	"github.com/sona-group/institution-cms/internal/permission"
	"github.com/sona-group/institution-cms/internal/program"
	"github.com/sona-group/institution-cms/internal/programsection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := mustOpenDB(ctx, cfg, logger)
	defer db.Close()

	summary, err := permission.EnsurePublicRead(ctx, permission.NewPostgresStore(db), logger,
		permission.PublicCollections, permission.ReadActions)
	if err != nil {
		logger.Fatal("bootstrap public permissions", zap.Error(err))
	}
	logger.Info("public permissions ready",
		zap.Int("created", summary.Created),
		zap.Int("enabled", summary.Enabled),
		zap.Int("unchanged", summary.Unchanged),
	)

	adminService := admin.NewService(admin.NewPostgresRepository(db), cfg.JWTSecret)
	if cfg.AdminEmail != "" {
		created, err := adminService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			logger.Fatal("bootstrap admin", zap.Error(err))
		}
		if created {
			logger.Info("admin account created", zap.String("email", cfg.AdminEmail))
		}
	}

	institutionService := institution.NewService(institution.NewPostgresRepository(db), newCache(ctx, cfg, logger), logger)

	adminHandler := admin.NewHandler(adminService, logger)
	institutionHandler := institution.NewHandler(institutionService, cfg.PublicURL, logger)
	sectionHandler := programsection.NewHandler(programsection.NewService(programsection.NewPostgresRepository(db), logger), logger)
	mediaHandler := media.NewHandler(media.NewService(media.NewPostgresStore(db), cfg.UploadDir, logger), logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	setupCORS(app)
	app.Use(logging.RequestLogger(logger))
	app.Use(metrics.Middleware())

	metrics.RegisterRoutes(app)
	health.NewHandler(db, logger).RegisterPublicRoutes(app)
	adminHandler.RegisterPublicRoutes(app)
	institutionHandler.RegisterPublicRoutes(app)
	program.NewHandler(program.NewPostgresRepository(db), logger).RegisterPublicRoutes(app)
	sectionHandler.RegisterPublicRoutes(app)
	mediaHandler.RegisterPublicRoutes(app)

	// everything registered after this point needs an admin token
	app.Use(adminHandler.Middleware())

	adminHandler.RegisterProtectedRoutes(app)
	institutionHandler.RegisterProtectedRoutes(app)
	sectionHandler.RegisterProtectedRoutes(app)
	mediaHandler.RegisterProtectedRoutes(app)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(ctx context.Context, cfg config.Config, logger *zap.Logger) *sql.DB {
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}
	return db
}

// newCache returns a Redis-backed cache when REDIS_URL is set. An
// unreachable Redis disables caching instead of failing the start.
func newCache(ctx context.Context, cfg config.Config, logger *zap.Logger) institution.Cache {
	if cfg.RedisURL == "" || cfg.CacheTTL == 0 {
		return institution.NopCache{}
	}
	client, err := institution.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		return institution.NopCache{}
	}
	return institution.NewRedisCache(client, cfg.CacheTTL, logger)
}
