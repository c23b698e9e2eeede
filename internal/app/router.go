package app

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/monesting/notification-store/internal/infrastructure/repositories"
	"github.com/monesting/notification-store/internal/interfaces/controllers"
	"github.com/monesting/notification-store/internal/usecases/notification"
	"github.com/monesting/notification-store/internal/usecases/subscription"
	"github.com/monesting/notification-store/pkg/storage"
)

// Controller is a group of routes registered on an echo instance
type Controller interface {
	RegisterRoutes(e *echo.Echo)
	GetName() string
}

// Router handles route registration and management
type Router struct {
	echo     *echo.Echo
	handlers *HandlerRegistry
	logger   *zap.Logger
}

// HandlerRegistry contains all public controllers
type HandlerRegistry struct {
	subscriptionController *controllers.SubscriptionController
	notificationController *controllers.NotificationController
}

// NewRouter wires repositories, use cases and controllers on top of store
func NewRouter(e *echo.Echo, store *storage.Store, logger *zap.Logger) *Router {
	subscriptionRepo := repositories.NewKVSubscriptionRepository(store)
	notificationRepo := repositories.NewKVNotificationRepository(store)

	subscriptionController := controllers.NewSubscriptionController(
		subscription.NewListSubscriptionsUseCase(subscriptionRepo, logger),
		subscription.NewGetSubscriptionsUseCase(subscriptionRepo),
		subscription.NewReplaceSubscriptionsUseCase(subscriptionRepo, logger),
		logger,
	)

	notificationController := controllers.NewNotificationController(
		notification.NewGetNotificationsUseCase(notificationRepo),
		notification.NewReplaceNotificationsUseCase(notificationRepo, logger),
		logger,
	)

	return &Router{
		echo:   e,
		logger: logger,
		handlers: &HandlerRegistry{
			subscriptionController: subscriptionController,
			notificationController: notificationController,
		},
	}
}

// RegisterRoutes registers every public route
func (r *Router) RegisterRoutes() {
	for _, c := range []Controller{
		r.handlers.subscriptionController,
		r.handlers.notificationController,
	} {
		c.RegisterRoutes(r.echo)
		r.logger.Debug("routes registered", zap.String("controller", c.GetName()))
	}
}
