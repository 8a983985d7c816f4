package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitetrack/config"
	"sitetrack/cron"
	"sitetrack/database"
	userRepoPkg "sitetrack/database/repository/user"
	"sitetrack/handlers"
	"sitetrack/middleware"
	"sitetrack/routes"
	"sitetrack/services/notification"
	"sitetrack/services/push"
	"sitetrack/services/tasks"
	"sitetrack/utils"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type jobQueue interface {
	notification.JobSubmitter
	notification.ReceiptScheduler
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var app *firebase.App
	if config.AppConfig.UserStore == config.UserStoreFirestore || config.AppConfig.PushProvider == config.PushProviderFCM {
		var err error
		app, err = utils.FirebaseInit(ctx)
		if err != nil {
			logger.Fatal("main: firebase", zap.Error(err))
		}
	}

	// repositories.
	var userRepo userRepoPkg.UserRepository
	var mongoClient *mongo.Client
	switch config.AppConfig.UserStore {
	case config.UserStoreFirestore:
		fs, err := utils.FirestoreClient(ctx, app)
		if err != nil {
			logger.Fatal("main: firestore", zap.Error(err))
		}
		defer fs.Close()
		userRepo = userRepoPkg.NewFirestoreUserRepo(fs)
	default:
		database.InitDB()
		mongoClient = database.MongoClient
		userRepo = userRepoPkg.NewMongoUserRepo(database.Database())
	}

	// push gateway.
	var gateway push.Gateway
	switch config.AppConfig.PushProvider {
	case config.PushProviderFCM:
		fcm, err := utils.FCMClient(ctx, app)
		if err != nil {
			logger.Fatal("main: fcm", zap.Error(err))
		}
		gateway = push.NewFCMGateway(fcm)
	default:
		gateway = push.NewExpoGateway(config.AppConfig.ExpoBaseURL, config.AppConfig.ExpoAccessToken, nil)
	}
	logger.Info("push gateway ready", zap.String("provider", config.AppConfig.PushProvider))

	// job queue.
	var queue jobQueue
	var pool *tasks.PoolSubmitter
	var asynqClient *asynq.Client
	var redisClient *redis.Client
	switch config.AppConfig.QueueMode {
	case config.QueueModeInline:
		var err error
		// Unbounded: SubmitEvent must return without waiting for a worker.
		pool, err = tasks.NewPoolSubmitter(ctx, 0, logger)
		if err != nil {
			logger.Fatal("main: worker pool", zap.Error(err))
		}
		queue = pool
	default:
		var err error
		redisClient, err = utils.NewQueueRedisClient()
		if err != nil {
			logger.Fatal("main: redis", zap.Error(err))
		}
		asynqClient = asynq.NewClient(cron.RedisOpt())
		queue = tasks.NewAsynqSubmitter(asynqClient)
	}

	// services.
	directory := notification.NewUserDirectory(userRepo, logger)
	resolver := notification.NewRecipientResolver(directory, logger)
	dispatcher := notification.NewDispatcher(gateway, logger,
		notification.WithChunkSize(config.AppConfig.PushChunkSize),
		notification.WithReceiptScheduler(queue, config.AppConfig.ReceiptCheckDelay),
	)
	receipts := notification.NewReceiptChecker(gateway, logger)

	notificationService, err := notification.NewDefaultNotificationService(
		resolver,
		dispatcher,
		receipts,
		queue,
		config.AppConfig.NotificationTimeout,
		logger,
	)
	if err != nil {
		logger.Fatal("main: notification service", zap.Error(err))
	}

	var worker *asynq.Server
	if pool != nil {
		pool.Bind(notificationService)
	} else {
		worker = cron.InitNotificationWorker(notificationService, logger)
	}

	utils.StartHealthMonitor(ctx, redisClient, mongoClient, time.Minute)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if !config.AppConfig.TrustProxyHeaders {
		if err := router.SetTrustedProxies(nil); err != nil {
			logger.Fatal("main: trusted proxies", zap.Error(err))
		}
	}
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, config.AppConfig.TrustProxyHeaders))

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	userDeviceHandler := handlers.NewUserDeviceHandler(directory)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		SendProcurementNotificationHandler: notificationHandler.SendProcurementNotificationHandler,
		UpdatePushTokenHandler:             userDeviceHandler.UpdatePushTokenHandler,
		HealthHandler:                      handlers.HealthHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	if worker != nil {
		worker.Shutdown()
	}
	if pool != nil {
		if err := pool.Close(5 * time.Second); err != nil {
			logger.Warn("main: worker pool did not drain", zap.Error(err))
		}
	}
	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect", zap.Error(err))
	}
	stop()

	logger.Sugar().Info("main: server stopped gracefully")
}
