package notification

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/monesting/notification-store/internal/domain/entities"
	"github.com/monesting/notification-store/internal/usecases/ports/repositories"
)

// ErrEmptyID is returned when an operation is called without an identifier
var ErrEmptyID = errors.New("identifier is required")

// GetNotificationsUseCase returns the notification record for one identifier
type GetNotificationsUseCase struct {
	repo repositories.NotificationRepository
}

// NewGetNotificationsUseCase creates a new GetNotificationsUseCase
func NewGetNotificationsUseCase(repo repositories.NotificationRepository) *GetNotificationsUseCase {
	return &GetNotificationsUseCase{repo: repo}
}

// Execute returns the stored record, or the empty shape when none exists
func (uc *GetNotificationsUseCase) Execute(ctx context.Context, id string) (entities.NotificationData, error) {
	if id == "" {
		return entities.NotificationData{}, ErrEmptyID
	}

	data, found, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return entities.NotificationData{}, fmt.Errorf("failed to get notifications for %q: %w", id, err)
	}
	if !found {
		return entities.EmptyNotificationData(), nil
	}
	if data.Notifications == nil {
		data = data.Fields()
		data.Notifications = []entities.Notification{}
	}
	return data, nil
}

// ReplaceNotificationsRequest represents the input for replacing a record
type ReplaceNotificationsRequest struct {
	ID   string
	Data entities.NotificationData
}

// ReplaceNotificationsUseCase overwrites or deletes the record for one identifier
type ReplaceNotificationsUseCase struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger
}

// NewReplaceNotificationsUseCase creates a new ReplaceNotificationsUseCase
func NewReplaceNotificationsUseCase(repo repositories.NotificationRepository, logger *zap.Logger) *ReplaceNotificationsUseCase {
	return &ReplaceNotificationsUseCase{repo: repo, logger: logger}
}

// Execute stores the record in full when it has notifications and deletes it
// otherwise. The enabled flag does not take part in that choice, so
// {enabled:true, notifications:[]} leaves no record behind.
func (uc *ReplaceNotificationsUseCase) Execute(ctx context.Context, req *ReplaceNotificationsRequest) error {
	if req.ID == "" {
		return ErrEmptyID
	}

	ctx = context.WithoutCancel(ctx)

	if req.Data.IsEmpty() {
		if err := uc.repo.Delete(ctx, req.ID); err != nil {
			return fmt.Errorf("failed to delete notifications for %q: %w", req.ID, err)
		}
		uc.logger.Info("notifications cleared",
			zap.String("id", req.ID),
			zap.Bool("enabled", req.Data.Enabled),
		)
		return nil
	}

	if err := uc.repo.Save(ctx, req.ID, req.Data); err != nil {
		return fmt.Errorf("failed to save notifications for %q: %w", req.ID, err)
	}

	uc.logger.Debug("notifications stored",
		zap.String("id", req.ID),
		zap.Bool("enabled", req.Data.Enabled),
		zap.Int("count", len(req.Data.Notifications)),
	)
	return nil
}
