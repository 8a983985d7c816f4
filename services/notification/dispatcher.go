package notification

import (
	"context"
	"fmt"
	"time"

	"sitetrack/models"
	"sitetrack/services/push"

	"go.uber.org/zap"
)

const (
	// DefaultReceiptDelay is how long the gateway gets before receipts are queried.
	DefaultReceiptDelay = 15 * time.Second

	notificationType = "procurement_update"
	defaultSound     = "default"
)

// ReceiptScheduler launches a detached receipt check after delay. It must not block
// on the check itself.
type ReceiptScheduler interface {
	ScheduleReceiptCheck(ctx context.Context, payload models.ReceiptCheckPayload, delay time.Duration) error
}

// Dispatcher composes and sends one message per recipient through the push gateway.
type Dispatcher struct {
	gateway      push.Gateway
	scheduler    ReceiptScheduler
	chunkSize    int
	receiptDelay time.Duration
	logger       *zap.Logger
}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithChunkSize caps the batch size below the gateway limit. Non-positive keeps the limit.
func WithChunkSize(n int) DispatcherOption {
	return func(d *Dispatcher) { d.chunkSize = n }
}

// WithReceiptScheduler enables the delayed receipt check.
func WithReceiptScheduler(s ReceiptScheduler, delay time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.scheduler = s
		if delay > 0 {
			d.receiptDelay = delay
		}
	}
}

func NewDispatcher(gateway push.Gateway, logger *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = zap.L()
	}
	d := &Dispatcher{
		gateway:      gateway,
		receiptDelay: DefaultReceiptDelay,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) batchSize() int {
	limit := d.gateway.ChunkSize()
	if d.chunkSize > 0 && (limit <= 0 || d.chunkSize < limit) {
		return d.chunkSize
	}
	return limit
}

// Dispatch sends the status notification to every recipient with a valid push token.
// Chunks are sent sequentially and a failing chunk only turns its own messages into
// errors. A *DispatchError is returned only when no chunk produced tickets.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	recipients []models.User,
	status models.ProcurementStatus,
	projectName, materialName, requestID string,
) (models.DispatchResult, error) {
	log := d.logger.With(zap.String("request_id", requestID), zap.String("status", string(status)))

	if len(recipients) == 0 {
		log.Info("no recipients to notify")
		return models.DispatchResult{Success: true}, nil
	}

	valid := make([]models.User, 0, len(recipients))
	for _, r := range recipients {
		if d.gateway.ValidToken(r.PushToken) {
			valid = append(valid, r)
			continue
		}
		log.Warn("skipping recipient with invalid push token", zap.String("user_id", r.ID))
	}
	if len(valid) == 0 {
		log.Info("no recipients with a valid push token")
		return models.DispatchResult{Success: true}, nil
	}

	messages := buildMessages(valid, status, projectName, materialName, requestID)
	tickets, err := d.send(ctx, log, messages, requestID)
	if err != nil {
		return models.DispatchResult{}, err
	}

	result := models.DispatchResult{Success: true}
	var accepted []string
	for i, t := range tickets {
		r := valid[i]
		if t.OK() {
			result.SentCount++
			accepted = append(accepted, t.ID)
			log.Debug("push accepted",
				zap.String("user_id", r.ID),
				zap.String("ticket_id", t.ID),
			)
			continue
		}
		result.ErrorCount++
		log.Warn("push rejected",
			zap.String("user_id", r.ID),
			zap.String("error", t.Message),
			zap.String("detail", push.DetailError(t.Details)),
		)
	}

	log.Info("dispatch finished",
		zap.Int("recipients", len(valid)),
		zap.Int("sent", result.SentCount),
		zap.Int("errors", result.ErrorCount),
	)

	d.scheduleReceipts(ctx, log, requestID, accepted)
	return result, nil
}

// send delivers messages chunk by chunk and returns tickets aligned with messages.
func (d *Dispatcher) send(ctx context.Context, log *zap.Logger, messages []push.Message, requestID string) ([]push.Ticket, error) {
	chunks := push.Chunk(messages, d.batchSize())
	tickets := make([]push.Ticket, 0, len(messages))

	var failed int
	var lastErr error
	for i, chunk := range chunks {
		chunkTickets, err := d.gateway.Send(ctx, chunk)
		if err == nil && len(chunkTickets) != len(chunk) {
			err = fmt.Errorf("%w: got %d, sent %d", push.ErrTicketCountMismatch, len(chunkTickets), len(chunk))
		}
		if err != nil {
			failed++
			lastErr = err
			log.Error("push chunk failed",
				zap.Int("chunk", i+1),
				zap.Int("chunks", len(chunks)),
				zap.Int("size", len(chunk)),
				zap.Error(err),
			)
			for range chunk {
				tickets = append(tickets, push.Ticket{Status: push.StatusError, Message: err.Error()})
			}
			continue
		}
		tickets = append(tickets, chunkTickets...)
	}

	if failed == len(chunks) {
		return nil, &DispatchError{RequestID: requestID, Chunks: len(chunks), Err: lastErr}
	}
	return tickets, nil
}

func (d *Dispatcher) scheduleReceipts(ctx context.Context, log *zap.Logger, requestID string, ticketIDs []string) {
	if len(ticketIDs) == 0 || d.scheduler == nil {
		return
	}
	if _, ok := d.gateway.(push.ReceiptFetcher); !ok {
		log.Debug("gateway has no receipt API, skipping receipt check")
		return
	}
	payload := models.ReceiptCheckPayload{RequestID: requestID, TicketIDs: ticketIDs}
	if err := d.scheduler.ScheduleReceiptCheck(ctx, payload, d.receiptDelay); err != nil {
		log.Warn("failed to schedule receipt check", zap.Error(err))
	}
}

func buildMessages(recipients []models.User, status models.ProcurementStatus, projectName, materialName, requestID string) []push.Message {
	messages := make([]push.Message, 0, len(recipients))
	for _, r := range recipients {
		content := Compose(status, projectName, materialName, r.Role)
		messages = append(messages, push.Message{
			To:    r.PushToken,
			Title: content.Title,
			Body:  content.Body,
			Sound: defaultSound,
			Data: map[string]string{
				"requestId": requestID,
				"status":    string(status),
				"type":      notificationType,
				"icon":      content.Icon,
			},
		})
	}
	return messages
}
