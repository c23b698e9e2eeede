package repositories

import (
	"context"
	"iter"

	"github.com/monesting/notification-store/internal/domain/entities"
	"github.com/monesting/notification-store/internal/usecases/ports/repositories"
	"github.com/monesting/notification-store/pkg/storage"
)

// KVSubscriptionRepository implements SubscriptionRepository on the
// "subscriptions:" namespace of a storage.Store
type KVSubscriptionRepository struct {
	store *storage.Store
}

// NewKVSubscriptionRepository creates a new KVSubscriptionRepository
func NewKVSubscriptionRepository(store *storage.Store) *KVSubscriptionRepository {
	return &KVSubscriptionRepository{store: store}
}

// FindAll yields every identifier with a stored list
func (r *KVSubscriptionRepository) FindAll(ctx context.Context) iter.Seq2[string, error] {
	return r.store.List(ctx, storage.NamespaceSubscriptions)
}

// FindByID retrieves the list stored for id
func (r *KVSubscriptionRepository) FindByID(ctx context.Context, id string) (entities.Subscriptions, bool, error) {
	var subs entities.Subscriptions
	found, err := r.store.Get(ctx, storage.NamespaceSubscriptions, id, &subs)
	if err != nil || !found {
		return nil, found, err
	}
	return subs, true, nil
}

// Save replaces the list stored for id
func (r *KVSubscriptionRepository) Save(ctx context.Context, id string, subs entities.Subscriptions) error {
	return r.store.Put(ctx, storage.NamespaceSubscriptions, id, subs)
}

// Delete removes the list stored for id
func (r *KVSubscriptionRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, storage.NamespaceSubscriptions, id)
}

var _ repositories.SubscriptionRepository = (*KVSubscriptionRepository)(nil)
