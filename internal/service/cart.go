package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glorimarket/cart_service/internal/events"
	"github.com/glorimarket/cart_service/internal/logging"
	"github.com/glorimarket/cart_service/internal/models"
	"github.com/glorimarket/cart_service/internal/pricing"
	"github.com/glorimarket/cart_service/internal/repo"
	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation")

	// ErrMutationFailed covers every way an update or delete can miss:
	// not-found, transport, permission. Callers treat all of them the
	// same; the underlying cause is only logged.
	ErrMutationFailed = errors.New("mutation failed")

	ErrFetchFailed = errors.New("fetch failed")
)

// EventProducer publishes cart events after successful mutations.
type EventProducer interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

// CartService validates mutations before they reach the repository and
// collapses repository failures into the coarse sentinels above. It never
// touches its callers' in-memory state; after a successful mutation the
// caller refetches.
type CartService struct {
	Repo     *repo.GormRepo
	Pricing  pricing.Config
	Producer EventProducer
}

// FetchItems loads the user's cart lines and prices them in one go.
func (s *CartService) FetchItems(ctx context.Context, ownerID uuid.UUID) ([]models.LineItem, pricing.OrderSummary, error) {
	items, err := s.Repo.FetchItems(ctx, ownerID)
	if err != nil {
		// a quarantined row is corrupt data, not a transport failure
		if errors.Is(err, repo.ErrSizeOutOfRange) {
			return nil, pricing.OrderSummary{}, fmt.Errorf("fetch cart of %s: %v: %w", ownerID, err, ErrValidation)
		}
		return nil, pricing.OrderSummary{}, fmt.Errorf("fetch cart of %s: %v: %w", ownerID, err, ErrFetchFailed)
	}

	summary, err := pricing.Summarize(s.Pricing, items)
	if err != nil {
		return nil, pricing.OrderSummary{}, fmt.Errorf("price cart of %s: %v: %w", ownerID, err, ErrFetchFailed)
	}
	return items, summary, nil
}

// UpdateItem replaces size and quantity of one cart line. Invalid values
// are rejected here and never issued to the repository.
func (s *CartService) UpdateItem(ctx context.Context, itemID uuid.UUID, size int, quantity uint) error {
	if itemID == uuid.Nil {
		return fmt.Errorf("item id must not be nil: %w", ErrValidation)
	}
	if !pricing.ValidSize(size) {
		return fmt.Errorf("size %d is not one of 50/100/200: %w", size, ErrValidation)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be a positive integer: %w", ErrValidation)
	}

	ok, err := s.Repo.UpdateItem(ctx, itemID, size, quantity)
	if err != nil {
		return fmt.Errorf("update item %s: %v: %w", itemID, err, ErrMutationFailed)
	}
	if !ok {
		return fmt.Errorf("update item %s: no row hit: %w", itemID, ErrMutationFailed)
	}

	s.publish(ctx, events.TopicCartItemAdjusted, itemID.String(), events.CartItemAdjusted{
		ItemID:     itemID,
		Size:       size,
		Quantity:   quantity,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// DeleteItem removes one cart line.
func (s *CartService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return fmt.Errorf("item id must not be nil: %w", ErrValidation)
	}

	ok, err := s.Repo.DeleteItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("delete item %s: %v: %w", itemID, err, ErrMutationFailed)
	}
	if !ok {
		return fmt.Errorf("delete item %s: no row hit: %w", itemID, ErrMutationFailed)
	}

	s.publish(ctx, events.TopicCartItemDeleted, itemID.String(), events.CartItemDeleted{
		ItemID:     itemID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// publish is best-effort: the mutation is already durable, a lost event
// must not fail it.
func (s *CartService) publish(ctx context.Context, topic, key string, event interface{}) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("cart_event_publish_failed", "topic", topic, "error", err)
	}
}
