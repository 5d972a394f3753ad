package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"buildsite/internal/caching"
	"buildsite/internal/handlers"
	"buildsite/internal/jobs"
	"buildsite/internal/jobs/background"
	"buildsite/internal/middleware"
	"buildsite/internal/repositories"
	"buildsite/internal/services"
	"buildsite/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	publicBaseURL := os.Getenv("PUBLIC_BASE_URL")

	storageSvc, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, useSSL, publicBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}

	// Create repositories
	landingRepo := repositories.NewLandingRepo(pool)
	blockRepo := repositories.NewBlockRepo(pool)
	assetRepo := repositories.NewAssetRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	landingSvc := services.NewLandingService(landingRepo, blockRepo, assetRepo, cacheSvc)
	blockSvc := services.NewBlockService(blockRepo, cacheSvc)
	assetSvc := services.NewAssetService(assetRepo, storageSvc, cacheSvc)

	// Background jobs
	auditSvc := jobs.NewAssetAuditService(landingRepo, blockRepo, assetRepo)
	scheduler, err := background.NewJobScheduler(auditSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create handlers
	landingHandlers := handlers.NewLandingHandlers(landingSvc)
	blockHandlers := handlers.NewBlockHandlers(blockSvc, landingSvc)
	assetHandlers := handlers.NewAssetHandlers(assetSvc, landingSvc, storageSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Version middleware
	versionMiddleware := middleware.NewVersionMiddleware()

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", handlers.ReadinessCheck)
	e.GET("/health/detailed", func(c echo.Context) error {
		return handlers.HealthCheckDetailed(c, pool)
	})

	// Public read path (no auth required)
	e.GET("/public/:domain", landingHandlers.PublicSnapshot)

	// Staff API
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))
	v1.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(middleware.JWTCustomClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*middleware.JWTCustomClaims)
			if !ok {
				return
			}
			if err := middleware.ParseJWTPayload(c, claims); err != nil {
				c.Error(err)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}))

	// Landing routes
	v1.GET("/landing", landingHandlers.GetLanding)
	v1.PUT("/landing/settings", landingHandlers.UpdateSettings)
	v1.POST("/landing/publish", landingHandlers.PublishLanding)
	v1.GET("/landing/snapshot", landingHandlers.PreviewSnapshot)

	// Block routes
	v1.GET("/landing/blocks", blockHandlers.ListBlocks)
	v1.POST("/landing/blocks", blockHandlers.CreateBlock)
	v1.GET("/landing/blocks/templates", blockHandlers.BlockTemplates)
	v1.PUT("/landing/blocks/reorder", blockHandlers.ReorderBlocks)
	v1.PUT("/landing/blocks/:id/content", blockHandlers.UpdateBlockContent)
	v1.PUT("/landing/blocks/:id/settings", blockHandlers.UpdateBlockSettings)
	v1.PUT("/landing/blocks/:id/active", blockHandlers.SetBlockActive)
	v1.POST("/landing/blocks/:id/publish", blockHandlers.PublishBlock)
	v1.POST("/landing/blocks/:id/duplicate", blockHandlers.DuplicateBlock)
	v1.DELETE("/landing/blocks/:id", blockHandlers.DeleteBlock)

	// Asset routes
	v1.GET("/landing/assets", assetHandlers.ListAssets)
	v1.POST("/landing/assets", assetHandlers.UploadAsset)
	v1.GET("/landing/assets/:id/download", assetHandlers.DownloadAsset)
	v1.PUT("/landing/assets/:id/metadata", assetHandlers.UpdateAssetMetadata)
	v1.DELETE("/landing/assets/:id", assetHandlers.DeleteAsset)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Buildsite server v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
