package handlers

import (
	"net/http"

	"sitetrack/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest dependency snapshot. Degraded dependencies answer 503.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if status.Status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
