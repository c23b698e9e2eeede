package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/monesting/notification-store/internal/domain/entities"
	"github.com/monesting/notification-store/internal/domain/validation"
	"github.com/monesting/notification-store/internal/usecases/notification"
)

// NotificationController handles HTTP requests for notification records
type NotificationController struct {
	getUC     *notification.GetNotificationsUseCase
	replaceUC *notification.ReplaceNotificationsUseCase
	logger    *zap.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(
	getUC *notification.GetNotificationsUseCase,
	replaceUC *notification.ReplaceNotificationsUseCase,
	logger *zap.Logger,
) *NotificationController {
	return &NotificationController{
		getUC:     getUC,
		replaceUC: replaceUC,
		logger:    logger,
	}
}

// GetName returns the name of this controller for logging
func (c *NotificationController) GetName() string {
	return "NotificationController"
}

// RegisterRoutes registers notification routes
func (c *NotificationController) RegisterRoutes(e *echo.Echo) {
	e.GET("/notifications/:id", c.GetNotifications)
	e.PUT("/notifications/:id", c.ReplaceNotifications)
}

// GetNotifications handles GET /notifications/:id
func (c *NotificationController) GetNotifications(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	data, err := c.getUC.Execute(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, notification.ErrEmptyID) {
			return echo.NewHTTPError(http.StatusNotFound, "Not Found")
		}
		c.logger.Error("failed to get notifications", zap.String("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get notifications")
	}
	return ctx.JSON(http.StatusOK, data)
}

// ReplaceNotifications handles PUT /notifications/:id
func (c *NotificationController) ReplaceNotifications(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found")
	}

	body, err := readValidatedBody(ctx, validation.NotificationData)
	if err != nil {
		return err
	}

	var data entities.NotificationData
	if err := json.Unmarshal(body, &data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := c.replaceUC.Execute(ctx.Request().Context(), &notification.ReplaceNotificationsRequest{
		ID:   id,
		Data: data,
	}); err != nil {
		c.logger.Error("failed to replace notifications", zap.String("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store notifications")
	}

	return ctx.NoContent(http.StatusCreated)
}
