// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/ariebrainware/clinic-records/config"
	"github.com/ariebrainware/clinic-records/endpoint"
	"github.com/ariebrainware/clinic-records/middleware"
	"github.com/ariebrainware/clinic-records/storage"
	"github.com/ariebrainware/clinic-records/store"
	"github.com/ariebrainware/clinic-records/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// openStore connects the record store selected by DBDRIVER. The returned
// closer releases the connection.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.DBDriver == config.DriverMongo {
		client, db, err := config.ConnectMongo(ctx)
		if err != nil {
			return nil, nil, err
		}
		return store.NewMongoStore(db), func() { _ = client.Disconnect(context.Background()) }, nil
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		return nil, nil, err
	}
	// Audit rows live next to the SQL records.
	util.SetAuditDB(db)
	return store.NewGormStore(db), func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	logger, err := util.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.AppName)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	util.SetAuditLogger(logger)

	ctx := context.Background()
	recordStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Error connecting to database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer closeStore()

	if err := recordStore.Migrate(ctx); err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	rdb, err := config.ConnectRedis()
	if err != nil {
		logger.Warn("Redis unavailable, login rate limiting disabled", zap.Error(err))
	} else if rdb == nil {
		logger.Info("Redis disabled, login rate limiting off")
	}

	handler := endpoint.NewHandler(
		recordStore,
		storage.NewLocalStore(cfg.UploadDir, "/uploads"),
		storage.NewLocalStore(cfg.PDFDir, "/pdfs"),
		logger,
	)
	handler.Doctors = util.NewDoctorNameCache(cfg.DoctorCacheTTL)

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.EndpointCallLogger("/uploads/", "/pdfs/"))

	router.Static("/uploads", cfg.UploadDir)
	router.Static("/pdfs", cfg.PDFDir)

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	endpoint.RegisterRoutes(router, handler, middleware.RateLimiter(middleware.RateLimitConfig{
		Limit:  cfg.LoginRateLimit,
		Window: cfg.LoginRateWindow,
	}))

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	logger.Info("Starting server", zap.String("address", address), zap.String("env", cfg.AppEnv))
	if err := router.Run(address); err != nil {
		logger.Fatal("error starting server", zap.Error(err))
	}
}
