// server/cmd/api/main.go
package main

import (
	"context"
	"log"
	"time"

	"fieldops-inventory-api-server/config"
	"fieldops-inventory-api-server/internal/api/routes"
	"fieldops-inventory-api-server/internal/auth"
	"fieldops-inventory-api-server/internal/cache"
	"fieldops-inventory-api-server/internal/database"
	"fieldops-inventory-api-server/internal/s3"
	"fieldops-inventory-api-server/internal/socket"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// .env is optional, used for local development.
	godotenv.Load()

	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret is not configured")
	}
	auth.Init(cfg.JWT.Secret)

	jwtExpiration := 24 * time.Hour
	if cfg.JWT.Expiration != "" {
		parsed, err := time.ParseDuration(cfg.JWT.Expiration)
		if err != nil {
			log.Fatalf("Invalid JWT expiration %q: %v", cfg.JWT.Expiration, err)
		}
		jwtExpiration = parsed
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// 2. Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.Mongo.DBName)

	// 3. Seed the superadmin account and the standard item catalog
	if err := database.SeedSuperAdmin(db); err != nil {
		log.Fatalf("Failed to seed superadmin: %v", err)
	}
	if err := database.SeedStandardItems(db); err != nil {
		log.Fatalf("Failed to seed standard items: %v", err)
	}

	// 4. Redis cache for the stock alert snapshot. The server still works
	// without it, every dashboard request just recomputes.
	var alertCache cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, stock alerts will not be cached", zap.Error(err))
		} else {
			alertCache = redisCache
		}
	}

	// 5. S3 uploader for handover proof photos, also optional.
	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			logger.Warn("S3 unavailable, proof photo upload disabled", zap.Error(err))
			s3Uploader = nil
		}
	}

	// 6. WebSocket hub for realtime notifications
	wsHub := socket.NewHub()

	// 7. Wire everything into the router
	router := routes.SetupRouter(cfg, db, alertCache, s3Uploader, wsHub, jwtExpiration)

	// 8. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
