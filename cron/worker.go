package cron

import (
	"context"
	"fmt"
	"time"

	"sitetrack/config"
	"sitetrack/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt returns the asynq connection settings for the notification queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux registers the notification task handlers.
func NewMux(handler tasks.Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeProcurementNotification, handleProcurementTask(handler))
	mux.HandleFunc(tasks.TypeReceiptCheck, handleReceiptTask(handler))
	return mux
}

// InitNotificationWorker runs the asynq worker in background and returns the server
// so the caller can shut it down.
func InitNotificationWorker(handler tasks.Handler, logger *zap.Logger) *asynq.Server {
	if logger == nil {
		logger = zap.L()
	}
	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				tasks.QueueNotifications: 1,
			},
			Logger: logger.Sugar(),
		},
	)
	mux := NewMux(handler)

	// Start async worker with retry logic
	go func() {
		logger.Info("starting notification worker", zap.Int("concurrency", concurrency))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("notification worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Fatal("notification worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

// Handlers return nil after a well-formed job so asynq never retries a delivery.
// Malformed payloads are archived with SkipRetry.
func handleProcurementTask(handler tasks.Handler) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := tasks.ParseProcurementNotificationTask(task)
		if err != nil {
			zap.L().Error("invalid notification task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		handler.HandleProcurementEvent(ctx, event)
		return nil
	}
}

func handleReceiptTask(handler tasks.Handler) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := tasks.ParseReceiptCheckTask(task)
		if err != nil {
			zap.L().Error("invalid receipt check task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		handler.HandleReceiptCheck(ctx, payload)
		return nil
	}
}
