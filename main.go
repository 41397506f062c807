package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assetscan/config"
	"assetscan/database"
	assetRepo "assetscan/database/repository/asset"
	bookingRepo "assetscan/database/repository/booking"
	"assetscan/handlers"
	"assetscan/middleware"
	"assetscan/routes"
	"assetscan/services/scan"
	"assetscan/services/staging"
	"assetscan/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitCache()
	db := database.Database()

	// repositories.
	assets := assetRepo.NewMongoAssetRepo(db)
	if err := assets.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create asset indexes: %v", err)
	}
	bookings := bookingRepo.NewMongoBookingRepo(db, assets)

	// services.
	resolver := scan.NewCachedResolver(assets, scan.NewRedisCache(utils.GetCacheClient()),
		config.AppConfig.ScanCacheTTL, logger.Named("scan"))
	sessions := staging.NewManager(bookings, resolver,
		staging.WithLogger(logger.Named("staging")),
		staging.WithIdleTTL(config.AppConfig.SessionIdleTTL),
		staging.WithSubmitTimeout(config.AppConfig.SubmitTimeout),
	)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	mongoCheck := utils.MongoCheck(database.MongoClient)
	redisCheck := utils.RedisCheck(utils.GetCacheClient())
	sessions.StartSweeper(bgCtx, time.Minute)
	utils.StartHealthMonitor(bgCtx, 30*time.Second, mongoCheck, redisCheck)

	scanHandler := handlers.NewScanSessionHandler(sessions)
	healthHandler := handlers.NewHealthHandler(mongoCheck, redisCheck, nil)
	handlerBundle := handlers.NewHandlerBundle(scanHandler, healthHandler)

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle, config.AppConfig.CORSOrigins)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	stopBackground()
	sessions.CloseAll()
	if err := utils.GetCacheClient().Close(); err != nil {
		logger.Warn("main: failed to close redis client", zap.Error(err))
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
