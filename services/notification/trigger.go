package notification

import (
	"context"
	"fmt"
	"strings"

	"sitetrack/models"

	"go.uber.org/zap"
)

// ValidateEvent checks that every field is present and the status is known.
func ValidateEvent(event models.NotificationEvent) error {
	required := []struct {
		field string
		value string
	}{
		{"status", string(event.Status)},
		{"project_name", event.ProjectName},
		{"material_name", event.MaterialName},
		{"created_by_uid", event.CreatedByUID},
		{"request_id", event.RequestID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}
	if !event.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("has unknown value %q", event.Status)}
	}
	return nil
}

// Submit validates synchronously, then enqueues the event for detached processing.
func (s *DefaultNotificationService) Submit(ctx context.Context, event models.NotificationEvent) (string, error) {
	if err := ValidateEvent(event); err != nil {
		return "", err
	}

	jobID, err := s.submitter.SubmitEvent(ctx, event)
	if err != nil {
		return "", fmt.Errorf("enqueue notification job: %w", err)
	}

	s.logger.Info("notification job enqueued",
		zap.String("request_id", event.RequestID),
		zap.String("status", string(event.Status)),
		zap.String("job_id", jobID),
	)
	return jobID, nil
}

// Process resolves recipients and dispatches. Store errors abort before any message is sent.
func (s *DefaultNotificationService) Process(ctx context.Context, event models.NotificationEvent) (models.DispatchResult, error) {
	recipients, err := s.resolver.Resolve(ctx, event.Status, event.CreatedByUID)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("resolve recipients: %w", err)
	}
	return s.dispatcher.Dispatch(ctx, recipients, event.Status, event.ProjectName, event.MaterialName, event.RequestID)
}

// HandleProcurementEvent is the detached job body. Nobody is waiting for the outcome,
// so errors end here in the log.
func (s *DefaultNotificationService) HandleProcurementEvent(ctx context.Context, event models.NotificationEvent) {
	log := s.logger.With(
		zap.String("request_id", event.RequestID),
		zap.String("status", string(event.Status)),
		zap.String("created_by_uid", event.CreatedByUID),
	)

	if err := ValidateEvent(event); err != nil {
		log.Error("dropping invalid notification event", zap.Error(err))
		return
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.Process(ctx, event)
	if err != nil {
		log.Error("notification pipeline failed", zap.Error(err))
		return
	}
	log.Info("notification pipeline completed",
		zap.Int("sent", result.SentCount),
		zap.Int("errors", result.ErrorCount),
	)
}

// HandleReceiptCheck is the delayed receipt job body.
func (s *DefaultNotificationService) HandleReceiptCheck(ctx context.Context, payload models.ReceiptCheckPayload) {
	if s.receipts == nil {
		return
	}
	s.receipts.Check(ctx, payload)
}
