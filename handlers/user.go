package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userRepo "sitetrack/database/repository/user"
	"sitetrack/models"
	"sitetrack/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PushTokenRegistrar stores the push address a client device reports.
type PushTokenRegistrar interface {
	RegisterPushToken(ctx context.Context, id, token string) error
}

type UserDeviceHandler struct {
	Registrar PushTokenRegistrar
}

func NewUserDeviceHandler(registrar PushTokenRegistrar) *UserDeviceHandler {
	return &UserDeviceHandler{Registrar: registrar}
}

// UpdatePushTokenHandler sets the caller's push token; an empty token unregisters the device.
func (h *UserDeviceHandler) UpdatePushTokenHandler(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Validation error", "user id is required")
		return
	}

	var req models.PushTokenUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation error", "invalid request body: "+err.Error())
		return
	}

	if err := h.Registrar.RegisterPushToken(c.Request.Context(), userID, req.PushToken); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "User not found", err.Error())
			return
		}
		getLogger(c).Error("failed to update push token", zap.String("user_id", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update push token", err.Error())
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Push token updated successfully", gin.H{"id": userID})
}
