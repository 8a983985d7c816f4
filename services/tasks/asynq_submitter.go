package tasks

import (
	"context"
	"time"

	"sitetrack/models"

	"github.com/hibiken/asynq"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqSubmitter hands notification work to the asynq queue in Redis.
type AsynqSubmitter struct {
	client enqueuer
}

func NewAsynqSubmitter(client *asynq.Client) *AsynqSubmitter {
	return &AsynqSubmitter{client: client}
}

// SubmitEvent enqueues the event and returns the asynq task id.
func (s *AsynqSubmitter) SubmitEvent(ctx context.Context, event models.NotificationEvent) (string, error) {
	task, opts, err := NewProcurementNotificationTask(event)
	if err != nil {
		return "", err
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// ScheduleReceiptCheck enqueues a receipt check that becomes runnable after delay.
func (s *AsynqSubmitter) ScheduleReceiptCheck(ctx context.Context, payload models.ReceiptCheckPayload, delay time.Duration) error {
	task, opts, err := NewReceiptCheckTask(payload, delay)
	if err != nil {
		return err
	}
	_, err = s.client.EnqueueContext(ctx, task, opts...)
	return err
}
