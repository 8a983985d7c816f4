// Package push is the boundary to third-party push delivery services.
package push

import (
	"context"
	"errors"
)

// TicketStatus is the gateway's per-message acknowledgment outcome.
type TicketStatus string

const (
	StatusOK    TicketStatus = "ok"
	StatusError TicketStatus = "error"
)

// Message is one outbound push notification bound to a single device address.
type Message struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// Ticket is the gateway's acceptance (ID set) or rejection of one message.
type Ticket struct {
	ID      string         `json:"id,omitempty"`
	Status  TicketStatus   `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// OK reports whether the gateway accepted the message.
func (t Ticket) OK() bool { return t.Status == StatusOK }

// Receipt is the later delivery confirmation for an accepted ticket.
type Receipt struct {
	Status  TicketStatus   `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Gateway sends batches of messages. Send returns one ticket per message, in order.
type Gateway interface {
	Send(ctx context.Context, messages []Message) ([]Ticket, error)
	// ValidToken performs the gateway's local syntactic check of a device address.
	ValidToken(token string) bool
	// ChunkSize is the largest batch Send accepts.
	ChunkSize() int
}

// ReceiptFetcher is implemented by gateways that expose delivery receipts.
type ReceiptFetcher interface {
	Receipts(ctx context.Context, ticketIDs []string) (map[string]Receipt, error)
	// ReceiptChunkSize is the largest id batch Receipts accepts.
	ReceiptChunkSize() int
}

// ErrTicketCountMismatch is returned when a gateway answers with a ticket count
// that does not match the submitted batch.
var ErrTicketCountMismatch = errors.New("push: ticket count does not match message count")

// DetailError extracts the machine-readable error code from ticket or receipt details.
func DetailError(details map[string]any) string {
	if details == nil {
		return ""
	}
	if code, ok := details["error"].(string); ok {
		return code
	}
	return ""
}
