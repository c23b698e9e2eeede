package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthController serves the liveness probe on the admin listener
type HealthController struct {
	storageType string
}

// NewHealthController creates a new HealthController reporting storageType
func NewHealthController(storageType string) *HealthController {
	return &HealthController{storageType: storageType}
}

// GetName returns the name of this controller for logging
func (c *HealthController) GetName() string {
	return "HealthController"
}

// RegisterRoutes registers the health route
func (c *HealthController) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", c.HealthCheck)
}

// HealthCheck handles GET /health requests to check server health
func (c *HealthController) HealthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": c.storageType,
	})
}
