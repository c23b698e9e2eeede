package repositories

import (
	"context"

	"github.com/monesting/notification-store/internal/domain/entities"
	"github.com/monesting/notification-store/internal/usecases/ports/repositories"
	"github.com/monesting/notification-store/pkg/storage"
)

// KVNotificationRepository implements NotificationRepository on the
// "notifications:" namespace of a storage.Store
type KVNotificationRepository struct {
	store *storage.Store
}

// NewKVNotificationRepository creates a new KVNotificationRepository
func NewKVNotificationRepository(store *storage.Store) *KVNotificationRepository {
	return &KVNotificationRepository{store: store}
}

// FindByID retrieves the record stored for id
func (r *KVNotificationRepository) FindByID(ctx context.Context, id string) (entities.NotificationData, bool, error) {
	var data entities.NotificationData
	found, err := r.store.Get(ctx, storage.NamespaceNotifications, id, &data)
	if err != nil || !found {
		return entities.NotificationData{}, found, err
	}
	return data, true, nil
}

// Save replaces the record stored for id
func (r *KVNotificationRepository) Save(ctx context.Context, id string, data entities.NotificationData) error {
	return r.store.Put(ctx, storage.NamespaceNotifications, id, data)
}

// Delete removes the record stored for id
func (r *KVNotificationRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, storage.NamespaceNotifications, id)
}

var _ repositories.NotificationRepository = (*KVNotificationRepository)(nil)
