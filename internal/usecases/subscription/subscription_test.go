package subscription

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/monesting/notification-store/internal/domain/entities"
	kvrepos "github.com/monesting/notification-store/internal/infrastructure/repositories"
	"github.com/monesting/notification-store/pkg/storage"
)

func newRepo() *kvrepos.KVSubscriptionRepository {
	return kvrepos.NewKVSubscriptionRepository(storage.NewStore(storage.NewMemoryStorage()))
}

func sampleSubs() entities.Subscriptions {
	return entities.Subscriptions{
		entities.PushSubscription(`{"endpoint":"https://push.example/x","keys":{"p256dh":"a","auth":"b"}}`),
		entities.PushSubscription(`{"endpoint":"https://push.example/y","keys":{"p256dh":"c","auth":"d"}}`),
	}
}

func TestReplaceThenGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	logger := zaptest.NewLogger(t)

	replace := NewReplaceSubscriptionsUseCase(repo, logger)
	get := NewGetSubscriptionsUseCase(repo)

	require.NoError(t, replace.Execute(ctx, &ReplaceSubscriptionsRequest{ID: "abc", Subscriptions: sampleSubs()}))

	got, err := get.Execute(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sampleSubs(), got)
}

func TestReplace_IsFullReplace(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	replace := NewReplaceSubscriptionsUseCase(repo, zap.NewNop())
	get := NewGetSubscriptionsUseCase(repo)

	require.NoError(t, replace.Execute(ctx, &ReplaceSubscriptionsRequest{ID: "abc", Subscriptions: sampleSubs()}))
	only := entities.Subscriptions{entities.PushSubscription(`{"endpoint":"https://push.example/z"}`)}
	require.NoError(t, replace.Execute(ctx, &ReplaceSubscriptionsRequest{ID: "abc", Subscriptions: only}))

	got, err := get.Execute(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, only, got)
}

func TestReplace_EmptyDeletes(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	replace := NewReplaceSubscriptionsUseCase(repo, zap.NewNop())
	get := NewGetSubscriptionsUseCase(repo)
	list := NewListSubscriptionsUseCase(repo, zap.NewNop())

	require.NoError(t, replace.Execute(ctx, &ReplaceSubscriptionsRequest{ID: "abc", Subscriptions: sampleSubs()}))
	require.NoError(t, replace.Execute(ctx, &ReplaceSubscriptionsRequest{ID: "abc", Subscriptions: entities.Subscriptions{}}))

	got, err := get.Execute(ctx, "abc")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	all, err := list.Execute(ctx)
	require.NoError(t, err)
	assert.NotContains(t, all, "abc")
}

func TestReplace_Idempotent(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStorage()
	repo := kvrepos.NewKVSubscriptionRepository(storage.NewStore(kv))
	replace := NewReplaceSubscriptionsUseCase(repo, zap.NewNop())

	req := &ReplaceSubscriptionsRequest{ID: "abc", Subscriptions: sampleSubs()}
	require.NoError(t, replace.Execute(ctx, req))
	once, err := kv.Get(ctx, "subscriptions:abc")
	require.NoError(t, err)

	require.NoError(t, replace.Execute(ctx, req))
	twice, err := kv.Get(ctx, "subscriptions:abc")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestGet_AbsentReturnsEmpty(t *testing.T) {
	got, err := NewGetSubscriptionsUseCase(newRepo()).Execute(context.Background(), "never-written")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEmptyID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	_, err := NewGetSubscriptionsUseCase(repo).Execute(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyID)

	err = NewReplaceSubscriptionsUseCase(repo, zap.NewNop()).Execute(ctx, &ReplaceSubscriptionsRequest{Subscriptions: sampleSubs()})
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	replace := NewReplaceSubscriptionsUseCase(repo, zap.NewNop())

	require.NoError(t, replace.Execute(ctx, &ReplaceSubscriptionsRequest{ID: "a", Subscriptions: sampleSubs()}))
	require.NoError(t, replace.Execute(ctx, &ReplaceSubscriptionsRequest{ID: "b", Subscriptions: sampleSubs()[:1]}))

	all, err := NewListSubscriptionsUseCase(repo, zap.NewNop()).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]entities.Subscriptions{
		"a": sampleSubs(),
		"b": sampleSubs()[:1],
	}, all)
}

func TestList_Empty(t *testing.T) {
	all, err := NewListSubscriptionsUseCase(newRepo(), zap.NewNop()).Execute(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

// vanishingRepo lists an identifier whose value is gone on read
type vanishingRepo struct {
	*kvrepos.KVSubscriptionRepository
	listErr error
	saveErr error
}

func (r *vanishingRepo) FindAll(context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if r.listErr != nil {
			yield("", r.listErr)
			return
		}
		yield("ghost", nil)
	}
}

func (r *vanishingRepo) Save(context.Context, string, entities.Subscriptions) error {
	return r.saveErr
}

func TestList_MissingValueNormalizesToEmpty(t *testing.T) {
	repo := &vanishingRepo{KVSubscriptionRepository: newRepo()}

	all, err := NewListSubscriptionsUseCase(repo, zaptest.NewLogger(t)).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]entities.Subscriptions{"ghost": {}}, all)
}

func TestBackendErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("backend unavailable")
	repo := &vanishingRepo{KVSubscriptionRepository: newRepo(), listErr: boom, saveErr: boom}

	_, err := NewListSubscriptionsUseCase(repo, zap.NewNop()).Execute(ctx)
	assert.ErrorIs(t, err, boom)

	err = NewReplaceSubscriptionsUseCase(repo, zap.NewNop()).Execute(ctx, &ReplaceSubscriptionsRequest{ID: "a", Subscriptions: sampleSubs()})
	assert.ErrorIs(t, err, boom)
}

func TestReplace_SurvivesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	kv := storage.NewMemoryStorage()
	repo := kvrepos.NewKVSubscriptionRepository(storage.NewStore(kv))

	err := NewReplaceSubscriptionsUseCase(repo, zap.NewNop()).Execute(ctx, &ReplaceSubscriptionsRequest{ID: "a", Subscriptions: sampleSubs()})
	require.NoError(t, err)

	_, err = kv.Get(context.Background(), "subscriptions:a")
	assert.NoError(t, err)
}

func TestEndpointHosts(t *testing.T) {
	subs := entities.Subscriptions{
		entities.PushSubscription(`{"endpoint":"https://fcm.googleapis.com/fcm/send/abc"}`),
		entities.PushSubscription(`{"custom":1}`),
		entities.PushSubscription(`{"endpoint":"not a url"}`),
	}
	assert.Equal(t, []string{"fcm.googleapis.com", "opaque", "opaque"}, endpointHosts(subs))
}
