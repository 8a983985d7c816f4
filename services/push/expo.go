package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultExpoBaseURL = "https://exp.host/--/api/v2"

	expoSendChunkLimit    = 100
	expoReceiptChunkLimit = 300
)

var expoUUIDToken = regexp.MustCompile(`(?i)^[a-z\d]{8}-[a-z\d]{4}-[a-z\d]{4}-[a-z\d]{4}-[a-z\d]{12}$`)

// ExpoGateway talks to the Expo push service over HTTP.
type ExpoGateway struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewExpoGateway returns an Expo gateway. An empty baseURL selects the public service
// and a nil httpClient gets a client with a 30s timeout.
func NewExpoGateway(baseURL, accessToken string, httpClient *http.Client) *ExpoGateway {
	if baseURL == "" {
		baseURL = DefaultExpoBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ExpoGateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

// ValidToken accepts ExponentPushToken[...], ExpoPushToken[...] and bare UUID tokens.
func (g *ExpoGateway) ValidToken(token string) bool {
	if (strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")) &&
		strings.HasSuffix(token, "]") {
		return true
	}
	return expoUUIDToken.MatchString(token)
}

func (g *ExpoGateway) ChunkSize() int        { return expoSendChunkLimit }
func (g *ExpoGateway) ReceiptChunkSize() int { return expoReceiptChunkLimit }

type expoError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type expoSendResponse struct {
	Data   []Ticket    `json:"data"`
	Errors []expoError `json:"errors"`
}

type expoReceiptsRequest struct {
	IDs []string `json:"ids"`
}

type expoReceiptsResponse struct {
	Data   map[string]Receipt `json:"data"`
	Errors []expoError        `json:"errors"`
}

// Send posts one batch. The whole call fails when Expo rejects the request itself;
// per-message rejections come back as error tickets.
func (g *ExpoGateway) Send(ctx context.Context, messages []Message) ([]Ticket, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	var resp expoSendResponse
	if err := g.post(ctx, "/push/send", messages, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 && len(resp.Errors) > 0 {
		return nil, fmt.Errorf("expo: send rejected: %s: %s", resp.Errors[0].Code, resp.Errors[0].Message)
	}
	if len(resp.Data) != len(messages) {
		return nil, fmt.Errorf("%w: got %d, sent %d", ErrTicketCountMismatch, len(resp.Data), len(messages))
	}
	return resp.Data, nil
}

// Receipts fetches delivery receipts for previously accepted tickets. Ids Expo does not
// know yet are simply absent from the result.
func (g *ExpoGateway) Receipts(ctx context.Context, ticketIDs []string) (map[string]Receipt, error) {
	if len(ticketIDs) == 0 {
		return map[string]Receipt{}, nil
	}

	var resp expoReceiptsResponse
	if err := g.post(ctx, "/push/getReceipts", expoReceiptsRequest{IDs: ticketIDs}, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil && len(resp.Errors) > 0 {
		return nil, fmt.Errorf("expo: receipts rejected: %s: %s", resp.Errors[0].Code, resp.Errors[0].Message)
	}
	if resp.Data == nil {
		resp.Data = map[string]Receipt{}
	}
	return resp.Data, nil
}

func (g *ExpoGateway) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("expo: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("expo: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.accessToken)
	}

	res, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("expo: %s: %w", path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("expo: read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("expo: %s returned %d: %s", path, res.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("expo: decode response: %w", err)
	}
	return nil
}
