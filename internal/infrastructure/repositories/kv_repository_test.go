package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monesting/notification-store/internal/domain/entities"
	"github.com/monesting/notification-store/pkg/storage"
)

func newTestStore() (*storage.Store, *storage.MemoryStorage) {
	kv := storage.NewMemoryStorage()
	return storage.NewStore(kv), kv
}

func TestKVSubscriptionRepository(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore()
	repo := NewKVSubscriptionRepository(store)

	_, found, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found)

	subs := entities.Subscriptions{entities.PushSubscription(`{"endpoint":"https://push.example/a"}`)}
	require.NoError(t, repo.Save(ctx, "alice", subs))
	require.NoError(t, repo.Save(ctx, "bob", subs))

	raw, err := kv.Get(ctx, "subscriptions:alice")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"endpoint":"https://push.example/a"}]`, string(raw))

	got, found, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, subs, got)

	var ids []string
	for id, err := range repo.FindAll(ctx) {
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"alice", "bob"}, ids)

	require.NoError(t, repo.Delete(ctx, "alice"))
	require.NoError(t, repo.Delete(ctx, "alice"))
	_, found, err = repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKVNotificationRepository(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore()
	repo := NewKVNotificationRepository(store)

	_, found, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found)

	data := entities.NotificationData{
		FormatVersion: entities.FormatVersion,
		Enabled:       true,
		Notifications: []entities.Notification{{
			ID:        "n1",
			Label:     "Rent",
			Price:     950,
			Currency:  "EUR",
			Start:     "2024-01-01",
			Frequency: entities.Frequency{Month: 1},
			Send:      9,
		}},
	}
	require.NoError(t, repo.Save(ctx, "alice", data))

	_, err = kv.Get(ctx, "notifications:alice")
	require.NoError(t, err)
	_, err = kv.Get(ctx, "subscriptions:alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, found, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, data, got.Fields())

	require.NoError(t, repo.Delete(ctx, "alice"))
	_, found, err = repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found)
}
