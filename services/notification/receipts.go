package notification

import (
	"context"

	"sitetrack/models"
	"sitetrack/services/push"

	"go.uber.org/zap"
)

// ReceiptSummary counts the outcome of one receipt check.
type ReceiptSummary struct {
	Delivered int
	Failed    int
	Pending   int
}

// ReceiptChecker queries delivery receipts for accepted tickets and logs the outcome.
type ReceiptChecker struct {
	fetcher push.ReceiptFetcher
	logger  *zap.Logger
}

// NewReceiptChecker returns a checker for gw. Gateways without a receipt API yield a
// checker that does nothing.
func NewReceiptChecker(gw push.Gateway, logger *zap.Logger) *ReceiptChecker {
	if logger == nil {
		logger = zap.L()
	}
	fetcher, _ := gw.(push.ReceiptFetcher)
	return &ReceiptChecker{fetcher: fetcher, logger: logger}
}

// Check is best effort: a failing chunk is logged and the remaining chunks still run.
func (c *ReceiptChecker) Check(ctx context.Context, payload models.ReceiptCheckPayload) ReceiptSummary {
	var summary ReceiptSummary
	if c.fetcher == nil || len(payload.TicketIDs) == 0 {
		return summary
	}
	log := c.logger.With(zap.String("request_id", payload.RequestID))

	for _, ids := range push.Chunk(payload.TicketIDs, c.fetcher.ReceiptChunkSize()) {
		receipts, err := c.fetcher.Receipts(ctx, ids)
		if err != nil {
			log.Error("receipt lookup failed", zap.Int("tickets", len(ids)), zap.Error(err))
			continue
		}
		for _, id := range ids {
			r, ok := receipts[id]
			if !ok {
				summary.Pending++
				continue
			}
			if r.Status == push.StatusOK {
				summary.Delivered++
				continue
			}
			summary.Failed++
			log.Warn("push delivery failed",
				zap.String("ticket_id", id),
				zap.String("error", r.Message),
				zap.String("detail", push.DetailError(r.Details)),
			)
		}
	}

	log.Info("receipt check finished",
		zap.Int("delivered", summary.Delivered),
		zap.Int("failed", summary.Failed),
		zap.Int("pending", summary.Pending),
	)
	return summary
}
