package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Notification endpoints
	SendProcurementNotificationHandler gin.HandlerFunc

	// User device endpoints
	UpdatePushTokenHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
