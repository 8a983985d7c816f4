package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitetrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func validEvent() models.NotificationEvent {
	return models.NotificationEvent{
		Status:       models.StatusPending,
		ProjectName:  "Site X",
		MaterialName: "Rebar",
		CreatedByUID: "eng1",
		RequestID:    "req1",
	}
}

type harness struct {
	svc       *DefaultNotificationService
	gateway   *fakeGateway
	submitter *fakeSubmitter
	logs      *observer.ObservedLogs
}

func newHarness(t *testing.T, repo *fakeUserRepo) harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	gw := &fakeGateway{}
	sub := &fakeSubmitter{}
	resolver := NewRecipientResolver(NewUserDirectory(repo, logger), logger)
	svc, err := NewDefaultNotificationService(resolver, NewDispatcher(gw, logger), NewReceiptChecker(gw, logger), sub, time.Minute, logger)
	require.NoError(t, err)
	return harness{svc: svc, gateway: gw, submitter: sub, logs: logs}
}

func TestValidateEvent(t *testing.T) {
	require.NoError(t, ValidateEvent(validEvent()))

	cases := map[string]func(e *models.NotificationEvent){
		"status":         func(e *models.NotificationEvent) { e.Status = "" },
		"project_name":   func(e *models.NotificationEvent) { e.ProjectName = "  " },
		"material_name":  func(e *models.NotificationEvent) { e.MaterialName = "" },
		"created_by_uid": func(e *models.NotificationEvent) { e.CreatedByUID = "" },
		"request_id":     func(e *models.NotificationEvent) { e.RequestID = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			e := validEvent()
			mutate(&e)
			var vErr *ValidationError
			require.ErrorAs(t, ValidateEvent(e), &vErr)
			assert.Equal(t, field, vErr.Field)
		})
	}

	e := validEvent()
	e.Status = "delivered"
	var vErr *ValidationError
	require.ErrorAs(t, ValidateEvent(e), &vErr)
	assert.Equal(t, "status", vErr.Field)
	assert.Contains(t, vErr.Error(), "delivered")
}

func TestNewDefaultNotificationServiceRequiresDependencies(t *testing.T) {
	_, err := NewDefaultNotificationService(nil, nil, nil, nil, 0, nil)
	assert.Error(t, err)
}

func TestSubmitEnqueuesWithoutProcessing(t *testing.T) {
	h := newHarness(t, &fakeUserRepo{users: []models.User{user("m1", models.RoleManager, token("m1"))}})

	jobID, err := h.svc.Submit(context.Background(), validEvent())
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, []models.NotificationEvent{validEvent()}, h.submitter.events)
	assert.Empty(t, h.gateway.sent, "submit must not send anything itself")
}

func TestSubmitRejectsInvalidEvent(t *testing.T) {
	h := newHarness(t, &fakeUserRepo{})
	e := validEvent()
	e.Status = "bogus"

	_, err := h.svc.Submit(context.Background(), e)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, h.submitter.events)
}

func TestSubmitQueueFailure(t *testing.T) {
	h := newHarness(t, &fakeUserRepo{})
	h.submitter.err = errors.New("redis: connection refused")

	_, err := h.svc.Submit(context.Background(), validEvent())
	require.Error(t, err)
	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr))
}

func TestProcessPendingEndToEnd(t *testing.T) {
	h := newHarness(t, &fakeUserRepo{users: []models.User{
		user("eng1", models.RoleEngineer, token("eng1")),
		user("mgr1", models.RoleManager, token("mgr1")),
		user("qs1", models.RoleQuantitySurveyor, ""),
	}})

	res, err := h.svc.Process(context.Background(), validEvent())
	require.NoError(t, err)
	assert.Equal(t, models.DispatchResult{Success: true, SentCount: 1, ErrorCount: 0}, res)

	msgs := h.gateway.sentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, token("mgr1"), msgs[0].To)
	assert.Contains(t, msgs[0].Body, "Rebar")
	assert.Contains(t, msgs[0].Body, "Site X")
}

func TestHandleProcurementEventSwallowsStoreErrors(t *testing.T) {
	h := newHarness(t, &fakeUserRepo{roleErr: errors.New("mongo unavailable")})

	assert.NotPanics(t, func() {
		h.svc.HandleProcurementEvent(context.Background(), validEvent())
	})
	assert.Empty(t, h.gateway.sent)
	assert.Equal(t, 1, h.logs.FilterMessage("notification pipeline failed").Len())
}

func TestHandleProcurementEventLogsCompletion(t *testing.T) {
	h := newHarness(t, &fakeUserRepo{users: []models.User{user("mgr1", models.RoleManager, token("mgr1"))}})

	h.svc.HandleProcurementEvent(context.Background(), validEvent())

	done := h.logs.FilterMessage("notification pipeline completed").All()
	require.Len(t, done, 1)
	assert.Equal(t, int64(1), done[0].ContextMap()["sent"])
}

func TestHandleProcurementEventDropsInvalidPayload(t *testing.T) {
	h := newHarness(t, &fakeUserRepo{})
	e := validEvent()
	e.RequestID = ""

	h.svc.HandleProcurementEvent(context.Background(), e)
	assert.Equal(t, 1, h.logs.FilterMessage("dropping invalid notification event").Len())
}
