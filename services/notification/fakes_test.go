package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	userRepo "sitetrack/database/repository/user"
	"sitetrack/models"
	"sitetrack/services/push"
)

type fakeUserRepo struct {
	users   []models.User
	roleErr error
	idErr   error
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.idErr != nil {
		return nil, f.idErr
	}
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByRole(_ context.Context, role models.Role) ([]models.User, error) {
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	var out []models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdatePushToken(_ context.Context, id, token string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].PushToken = token
			return nil
		}
	}
	return fmt.Errorf("user with id %s: %w", id, userRepo.ErrUserNotFound)
}

func user(id string, role models.Role, token string) models.User {
	return models.User{ID: id, Name: id, Email: id + "@site.test", Role: role, PushToken: token}
}

func token(id string) string {
	return "ExponentPushToken[" + id + "]"
}

// fakeGateway accepts Expo-style tokens and fails the chunks listed in failChunks (1-based).
type fakeGateway struct {
	mu         sync.Mutex
	chunkSize  int
	failChunks map[int]bool
	reject     map[string]bool
	sent       [][]push.Message
	receipts   map[string]push.Receipt
	receiptErr error
	lookups    [][]string
}

func (g *fakeGateway) ValidToken(t string) bool {
	return strings.HasPrefix(t, "ExponentPushToken[") && strings.HasSuffix(t, "]")
}

func (g *fakeGateway) ChunkSize() int {
	if g.chunkSize == 0 {
		return 100
	}
	return g.chunkSize
}

func (g *fakeGateway) Send(_ context.Context, msgs []push.Message) ([]push.Ticket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, msgs)
	if g.failChunks[len(g.sent)] {
		return nil, fmt.Errorf("gateway unavailable for chunk %d", len(g.sent))
	}
	tickets := make([]push.Ticket, 0, len(msgs))
	for _, m := range msgs {
		if g.reject[m.To] {
			tickets = append(tickets, push.Ticket{
				Status:  push.StatusError,
				Message: "device not registered",
				Details: map[string]any{"error": "DeviceNotRegistered"},
			})
			continue
		}
		tickets = append(tickets, push.Ticket{ID: "ticket-" + m.To, Status: push.StatusOK})
	}
	return tickets, nil
}

func (g *fakeGateway) sentMessages() []push.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	var all []push.Message
	for _, chunk := range g.sent {
		all = append(all, chunk...)
	}
	return all
}

// receiptGateway adds the receipt API to fakeGateway.
type receiptGateway struct {
	*fakeGateway
	receiptChunk int
}

func (g *receiptGateway) ReceiptChunkSize() int { return g.receiptChunk }

func (g *receiptGateway) Receipts(_ context.Context, ids []string) (map[string]push.Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups = append(g.lookups, ids)
	if g.receiptErr != nil && len(g.lookups) == 1 {
		return nil, g.receiptErr
	}
	out := map[string]push.Receipt{}
	for _, id := range ids {
		if r, ok := g.receipts[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

type fakeScheduler struct {
	payloads []models.ReceiptCheckPayload
	delays   []time.Duration
	err      error
}

func (s *fakeScheduler) ScheduleReceiptCheck(_ context.Context, p models.ReceiptCheckPayload, delay time.Duration) error {
	s.payloads = append(s.payloads, p)
	s.delays = append(s.delays, delay)
	return s.err
}

type fakeSubmitter struct {
	events []models.NotificationEvent
	err    error
}

func (s *fakeSubmitter) SubmitEvent(_ context.Context, e models.NotificationEvent) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.events = append(s.events, e)
	return fmt.Sprintf("job-%d", len(s.events)), nil
}
