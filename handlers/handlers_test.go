package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	userRepo "sitetrack/database/repository/user"
	"sitetrack/models"
	"sitetrack/services/notification"
	"sitetrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
}

type fakeService struct {
	submitted []models.NotificationEvent
	err       error
}

func (f *fakeService) Submit(_ context.Context, e models.NotificationEvent) (string, error) {
	if err := notification.ValidateEvent(e); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", fmt.Errorf("enqueue notification job: %w", f.err)
	}
	f.submitted = append(f.submitted, e)
	return "job-1", nil
}

func (f *fakeService) Process(context.Context, models.NotificationEvent) (models.DispatchResult, error) {
	return models.DispatchResult{}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func postJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func notificationRouter(svc notification.NotificationService) *gin.Engine {
	r := gin.New()
	r.POST("/api/notifications", NewNotificationHandler(svc).SendProcurementNotificationHandler)
	return r
}

const validEvent = `{"status":"approved","project_name":"Site X","material_name":"Rebar","created_by_uid":"e1","request_id":"r1"}`

func TestSendProcurementNotificationAccepted(t *testing.T) {
	svc := &fakeService{}
	w, env := postJSON(t, notificationRouter(svc), http.MethodPost, "/api/notifications", validEvent)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Notification job enqueued successfully", env.Message)
	assert.JSONEq(t, `{"request_id":"r1","status":"approved","job_id":"job-1"}`, string(env.Data))
	require.Len(t, svc.submitted, 1)
	assert.Equal(t, "Rebar", svc.submitted[0].MaterialName)
}

func TestSendProcurementNotificationValidation(t *testing.T) {
	cases := map[string]string{
		"missing field":  `{"status":"approved","project_name":"Site X","created_by_uid":"e1","request_id":"r1"}`,
		"unknown status": `{"status":"lost","project_name":"Site X","material_name":"Rebar","created_by_uid":"e1","request_id":"r1"}`,
		"malformed":      `{"status":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &fakeService{}
			w, env := postJSON(t, notificationRouter(svc), http.MethodPost, "/api/notifications", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, "Validation error", env.Message)
			assert.NotEmpty(t, env.Error)
			assert.Empty(t, svc.submitted)
		})
	}
}

func TestSendProcurementNotificationQueueDown(t *testing.T) {
	svc := &fakeService{err: errors.New("redis: connection refused")}
	w, env := postJSON(t, notificationRouter(svc), http.MethodPost, "/api/notifications", validEvent)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Failed to enqueue notification job", env.Message)
	assert.Contains(t, env.Error, "connection refused")
}

type fakeRegistrar struct {
	tokens map[string]string
	err    error
}

func (f *fakeRegistrar) RegisterPushToken(_ context.Context, id, token string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.tokens[id]; !ok {
		return &notification.StoreError{Op: "update push token " + id, Err: userRepo.ErrUserNotFound}
	}
	f.tokens[id] = token
	return nil
}

func deviceRouter(reg PushTokenRegistrar) *gin.Engine {
	r := gin.New()
	r.PUT("/api/users/:id/push-token", NewUserDeviceHandler(reg).UpdatePushTokenHandler)
	return r
}

func TestUpdatePushToken(t *testing.T) {
	reg := &fakeRegistrar{tokens: map[string]string{"e1": ""}}
	w, env := postJSON(t, deviceRouter(reg), http.MethodPut, "/api/users/e1/push-token", `{"push_token":"ExponentPushToken[abc]"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "ExponentPushToken[abc]", reg.tokens["e1"])
}

func TestUpdatePushTokenUnknownUser(t *testing.T) {
	reg := &fakeRegistrar{tokens: map[string]string{}}
	w, env := postJSON(t, deviceRouter(reg), http.MethodPut, "/api/users/ghost/push-token", `{"push_token":"ExponentPushToken[abc]"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Message)
}

func TestUpdatePushTokenStoreFailure(t *testing.T) {
	reg := &fakeRegistrar{err: errors.New("mongo: timeout")}
	w, env := postJSON(t, deviceRouter(reg), http.MethodPut, "/api/users/e1/push-token", `{"push_token":""}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
}

func TestHealthHandler(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthHandler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body utils.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "starting", body.Status)
}
