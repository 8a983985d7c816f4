package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"sitetrack/models"

	"github.com/hibiken/asynq"
)

const (
	TypeProcurementNotification = "notification:procurement"
	TypeReceiptCheck            = "notification:receipts"

	// QueueNotifications is the asynq queue both notification task types run on.
	QueueNotifications = "notifications"
)

// NewProcurementNotificationTask builds the task for one status change. Delivery is
// attempted at most once, so the task is never retried.
func NewProcurementNotificationTask(event models.NotificationEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeProcurementNotification, b)
	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(0),
	}
	return task, opts, nil
}

// NewReceiptCheckTask builds the delayed receipt check task.
func NewReceiptCheckTask(payload models.ReceiptCheckPayload, delay time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReceiptCheck, b)
	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(0),
	}
	return task, opts, nil
}

func ParseProcurementNotificationTask(t *asynq.Task) (models.NotificationEvent, error) {
	var event models.NotificationEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return event, fmt.Errorf("invalid %s payload: %w", TypeProcurementNotification, err)
	}
	return event, nil
}

func ParseReceiptCheckTask(t *asynq.Task) (models.ReceiptCheckPayload, error) {
	var payload models.ReceiptCheckPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("invalid %s payload: %w", TypeReceiptCheck, err)
	}
	return payload, nil
}
