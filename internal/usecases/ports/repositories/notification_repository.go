package repositories

import (
	"context"

	"github.com/monesting/notification-store/internal/domain/entities"
)

// NotificationRepository persists one NotificationData record per identifier
type NotificationRepository interface {
	// FindByID returns the stored record. found is false when none exists.
	FindByID(ctx context.Context, id string) (data entities.NotificationData, found bool, err error)

	// Save replaces the record for id
	Save(ctx context.Context, id string, data entities.NotificationData) error

	// Delete removes the record for id. Deleting a missing record succeeds.
	Delete(ctx context.Context, id string) error
}
