package subscription

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

// ListSubscriptionsUseCase returns every stored subscription list
type ListSubscriptionsUseCase struct {
	repo   repositories.SubscriptionRepository
	logger *zap.Logger
}

// NewListSubscriptionsUseCase creates a new ListSubscriptionsUseCase
func NewListSubscriptionsUseCase(repo repositories.SubscriptionRepository, logger *zap.Logger) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{repo: repo, logger: logger}
}

// Execute maps each identifier to its list. A listed identifier whose value
// has disappeared by the time it is read maps to an empty list.
func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context) (map[string]entities.Subscriptions, error) {
	result := make(map[string]entities.Subscriptions)

	for id, err := range uc.repo.FindAll(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions: %w", err)
		}

		subs, found, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get subscriptions for %q: %w", id, err)
		}
		if !found {
			uc.logger.Debug("listed subscription key has no value", zap.String("id", id))
			subs = entities.Subscriptions{}
		}
		result[id] = subs
	}

	return result, nil
}

// GetSubscriptionsUseCase returns the list stored for one identifier
type GetSubscriptionsUseCase struct {
	repo repositories.SubscriptionRepository
}

// NewGetSubscriptionsUseCase creates a new GetSubscriptionsUseCase
func NewGetSubscriptionsUseCase(repo repositories.SubscriptionRepository) *GetSubscriptionsUseCase {
	return &GetSubscriptionsUseCase{repo: repo}
}

// Execute returns the stored list, or an empty list when nothing is stored
func (uc *GetSubscriptionsUseCase) Execute(ctx context.Context, id string) (entities.Subscriptions, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	subs, found, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions for %q: %w", id, err)
	}
	if !found || subs == nil {
		return entities.Subscriptions{}, nil
	}
	return subs, nil
}

// ReplaceSubscriptionsRequest represents the input for replacing a list
type ReplaceSubscriptionsRequest struct {
	ID            string
	Subscriptions entities.Subscriptions
}

// ReplaceSubscriptionsUseCase overwrites or deletes the list for one identifier
type ReplaceSubscriptionsUseCase struct {
	repo   repositories.SubscriptionRepository
	logger *zap.Logger
}

// NewReplaceSubscriptionsUseCase creates a new ReplaceSubscriptionsUseCase
func NewReplaceSubscriptionsUseCase(repo repositories.SubscriptionRepository, logger *zap.Logger) *ReplaceSubscriptionsUseCase {
	return &ReplaceSubscriptionsUseCase{repo: repo, logger: logger}
}

// Execute stores a non-empty list in full and deletes the record for an
// empty one. Once issued, the store call is not cancelled with ctx.
func (uc *ReplaceSubscriptionsUseCase) Execute(ctx context.Context, req *ReplaceSubscriptionsRequest) error {
	if req.ID == "" {
		return ErrEmptyID
	}

	ctx = context.WithoutCancel(ctx)

	if req.Subscriptions.IsEmpty() {
		if err := uc.repo.Delete(ctx, req.ID); err != nil {
			return fmt.Errorf("failed to delete subscriptions for %q: %w", req.ID, err)
		}
		uc.logger.Info("subscriptions cleared", zap.String("id", req.ID))
		return nil
	}

	if err := uc.repo.Save(ctx, req.ID, req.Subscriptions); err != nil {
		return fmt.Errorf("failed to save subscriptions for %q: %w", req.ID, err)
	}

	if ce := uc.logger.Check(zap.DebugLevel, "subscriptions stored"); ce != nil {
		ce.Write(
			zap.String("id", req.ID),
			zap.Int("count", len(req.Subscriptions)),
			zap.Strings("endpoint_hosts", endpointHosts(req.Subscriptions)),
		)
	}
	return nil
}
