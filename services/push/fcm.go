package push

import (
	"context"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/messaging"
)

const fcmSendEachLimit = 500

// fcmSender is the subset of *messaging.Client the gateway uses.
type fcmSender interface {
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
}

// FCMGateway delivers through Firebase Cloud Messaging. FCM has no receipt API,
// so it does not implement ReceiptFetcher.
type FCMGateway struct {
	client fcmSender
}

// NewFCMGateway wraps a Firebase messaging client.
func NewFCMGateway(client *messaging.Client) *FCMGateway {
	return &FCMGateway{client: client}
}

func (g *FCMGateway) ChunkSize() int { return fcmSendEachLimit }

// ValidToken rejects blank tokens, tokens with whitespace and Expo-formatted tokens.
func (g *FCMGateway) ValidToken(token string) bool {
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return false
	}
	return !strings.HasPrefix(token, "ExponentPushToken[") && !strings.HasPrefix(token, "ExpoPushToken[")
}

func (g *FCMGateway) Send(ctx context.Context, messages []Message) ([]Ticket, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	batch := make([]*messaging.Message, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, toFCMMessage(m))
	}

	resp, err := g.client.SendEach(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("fcm: send batch: %w", err)
	}
	if len(resp.Responses) != len(messages) {
		return nil, fmt.Errorf("%w: got %d, sent %d", ErrTicketCountMismatch, len(resp.Responses), len(messages))
	}

	tickets := make([]Ticket, 0, len(resp.Responses))
	for _, r := range resp.Responses {
		if r.Success {
			tickets = append(tickets, Ticket{ID: r.MessageID, Status: StatusOK})
			continue
		}
		t := Ticket{Status: StatusError, Message: "unknown FCM error"}
		if r.Error != nil {
			t.Message = r.Error.Error()
			if messaging.IsUnregistered(r.Error) {
				t.Details = map[string]any{"error": "DeviceNotRegistered"}
			}
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func toFCMMessage(m Message) *messaging.Message {
	sound := m.Sound
	if sound == "" {
		sound = "default"
	}
	return &messaging.Message{
		Token: m.To,
		Notification: &messaging.Notification{
			Title: m.Title,
			Body:  m.Body,
		},
		Data: m.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "procurement_updates",
				Sound:     sound,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: sound,
				},
			},
		},
	}
}
