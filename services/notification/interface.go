package notification

import (
	"context"
	"fmt"
	"time"

	"sitetrack/models"

	"go.uber.org/zap"
)

// NotificationService is the entry point for procurement status notifications.
type NotificationService interface {
	// Submit validates the event and hands it to a background job. It returns the job id
	// without waiting for any notification to be sent.
	Submit(ctx context.Context, event models.NotificationEvent) (string, error)
	// Process runs resolve and dispatch for one event in the caller's goroutine.
	Process(ctx context.Context, event models.NotificationEvent) (models.DispatchResult, error)
}

// JobSubmitter launches the detached processing of an event and returns a job id.
type JobSubmitter interface {
	SubmitEvent(ctx context.Context, event models.NotificationEvent) (string, error)
}

// Resolver picks the recipients for a status change.
type Resolver interface {
	Resolve(ctx context.Context, status models.ProcurementStatus, requestingUserID string) ([]models.User, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	resolver   Resolver
	dispatcher *Dispatcher
	receipts   *ReceiptChecker
	submitter  JobSubmitter
	timeout    time.Duration
	logger     *zap.Logger
}

func NewDefaultNotificationService(
	resolver Resolver,
	dispatcher *Dispatcher,
	receipts *ReceiptChecker,
	submitter JobSubmitter,
	timeout time.Duration,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if resolver == nil || dispatcher == nil || submitter == nil {
		return nil, fmt.Errorf("notification service initialization error: resolver, dispatcher or submitter is nil")
	}
	if logger == nil {
		logger = zap.L()
	}
	return &DefaultNotificationService{
		resolver:   resolver,
		dispatcher: dispatcher,
		receipts:   receipts,
		submitter:  submitter,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

var _ NotificationService = (*DefaultNotificationService)(nil)
