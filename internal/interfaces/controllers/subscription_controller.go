package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/monesting/notification-store/internal/domain/entities"
	"github.com/monesting/notification-store/internal/domain/validation"
	"github.com/monesting/notification-store/internal/usecases/subscription"
)

// SubscriptionController handles HTTP requests for push subscription lists
type SubscriptionController struct {
	listUC    *subscription.ListSubscriptionsUseCase
	getUC     *subscription.GetSubscriptionsUseCase
	replaceUC *subscription.ReplaceSubscriptionsUseCase
	logger    *zap.Logger
}

// NewSubscriptionController creates a new SubscriptionController
func NewSubscriptionController(
	listUC *subscription.ListSubscriptionsUseCase,
	getUC *subscription.GetSubscriptionsUseCase,
	replaceUC *subscription.ReplaceSubscriptionsUseCase,
	logger *zap.Logger,
) *SubscriptionController {
	return &SubscriptionController{
		listUC:    listUC,
		getUC:     getUC,
		replaceUC: replaceUC,
		logger:    logger,
	}
}

// GetName returns the name of this controller for logging
func (c *SubscriptionController) GetName() string {
	return "SubscriptionController"
}

// RegisterRoutes registers subscription routes
func (c *SubscriptionController) RegisterRoutes(e *echo.Echo) {
	e.GET("/subscriptions", c.ListSubscriptions)
	e.GET("/subscriptions/:id", c.GetSubscriptions)
	e.PUT("/subscriptions/:id", c.ReplaceSubscriptions)
}

// ListSubscriptions handles GET /subscriptions
func (c *SubscriptionController) ListSubscriptions(ctx echo.Context) error {
	all, err := c.listUC.Execute(ctx.Request().Context())
	if err != nil {
		c.logger.Error("failed to list subscriptions", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list subscriptions")
	}
	return ctx.JSON(http.StatusOK, all)
}

// GetSubscriptions handles GET /subscriptions/:id
func (c *SubscriptionController) GetSubscriptions(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	subs, err := c.getUC.Execute(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, subscription.ErrEmptyID) {
			return echo.NewHTTPError(http.StatusNotFound, "Not Found")
		}
		c.logger.Error("failed to get subscriptions", zap.String("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get subscriptions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

// ReplaceSubscriptions handles PUT /subscriptions/:id
func (c *SubscriptionController) ReplaceSubscriptions(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found")
	}

	body, err := readValidatedBody(ctx, validation.Subscriptions)
	if err != nil {
		return err
	}

	var subs entities.Subscriptions
	if err := json.Unmarshal(body, &subs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := c.replaceUC.Execute(ctx.Request().Context(), &subscription.ReplaceSubscriptionsRequest{
		ID:            id,
		Subscriptions: subs,
	}); err != nil {
		c.logger.Error("failed to replace subscriptions", zap.String("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store subscriptions")
	}

	return ctx.NoContent(http.StatusCreated)
}
