package handlers

import (
	"errors"
	"net/http"

	"sitetrack/models"
	"sitetrack/services/notification"
	"sitetrack/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	Service notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

// SendProcurementNotificationHandler enqueues a notification job for a procurement
// status change. It answers as soon as the job is queued.
func (h *NotificationHandler) SendProcurementNotificationHandler(c *gin.Context) {
	logger := getLogger(c)

	var event models.NotificationEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation error", "invalid request body: "+err.Error())
		return
	}

	jobID, err := h.Service.Submit(c.Request.Context(), event)
	if err != nil {
		var vErr *notification.ValidationError
		if errors.As(err, &vErr) {
			utils.JSONError(c, http.StatusBadRequest, "Validation error", vErr.Error())
			return
		}
		logger.Error("failed to enqueue notification job",
			zap.String("request_id", event.RequestID),
			zap.Error(err),
		)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to enqueue notification job", err.Error())
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Notification job enqueued successfully", models.NotificationJobResponse{
		RequestID: event.RequestID,
		Status:    event.Status,
		JobID:     jobID,
	})
}
