package repositories

import (
	"context"
	"iter"

	"github.com/monesting/notification-store/internal/domain/entities"
)

// SubscriptionRepository persists one subscription list per identifier
type SubscriptionRepository interface {
	// FindAll yields every identifier that currently has a stored list.
	// The sequence is lazy and may yield an error as its last element.
	FindAll(ctx context.Context) iter.Seq2[string, error]

	// FindByID returns the stored list. found is false when none exists.
	FindByID(ctx context.Context, id string) (subs entities.Subscriptions, found bool, err error)

	// Save replaces the list for id
	Save(ctx context.Context, id string, subs entities.Subscriptions) error

	// Delete removes the list for id. Deleting a missing list succeeds.
	Delete(ctx context.Context, id string) error
}
