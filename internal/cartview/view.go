// Package cartview holds the in-memory view of one user's cart. The view
// never patches itself after a mutation: every successful adjust or delete
// invalidates it and the whole line-item list is refetched, so what the
// user sees is always what the store persisted.
package cartview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/glorimarket/cart_service/internal/models"
	"github.com/glorimarket/cart_service/internal/pricing"
	"github.com/google/uuid"
)

// CartService is the slice of the cart service the view depends on.
type CartService interface {
	FetchItems(ctx context.Context, ownerID uuid.UUID) ([]models.LineItem, pricing.OrderSummary, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, size int, quantity uint) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

// Notifier receives the user-facing outcome of cart mutations.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

type State int

const (
	StateLoading State = iota
	StateReady
)

var (
	// ErrBusy rejects a mutation issued while the view is loading or
	// another mutation is outstanding. A stale item list must never be
	// the basis for a second adjust.
	ErrBusy = errors.New("cart is busy")

	ErrNotFound = errors.New("item not in cart")
)

// View owns the current line-item collection and its summary. The epoch
// counter replaces the shared refetch flag of older revisions: every
// invalidation bumps it, and a fetch result is applied only if the epoch
// it started under is still current.
type View struct {
	svc    CartService
	notify Notifier

	mu      sync.Mutex
	ownerID uuid.UUID
	state   State
	epoch   uint64
	items   []models.LineItem
	summary pricing.OrderSummary

	// mutating is set while an adjust or delete is outstanding and stays
	// set through its follow-up refetch. Refresh never touches it, so a
	// concurrently resolving fetch cannot re-open the mutation gate.
	mutating      bool
	mutationEpoch uint64
}

func New(svc CartService, notify Notifier, ownerID uuid.UUID) *View {
	return &View{
		svc:     svc,
		notify:  notify,
		ownerID: ownerID,
		state:   StateLoading,
	}
}

// Refresh re-reads the cart from the store. If another refresh or an owner
// switch advanced the epoch while the fetch was in flight, the stale
// result is discarded instead of applied.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.state = StateLoading
	v.epoch++
	epoch := v.epoch
	owner := v.ownerID
	v.mu.Unlock()

	items, summary, err := v.svc.FetchItems(ctx, owner)

	v.mu.Lock()
	defer v.mu.Unlock()
	if epoch != v.epoch {
		// a later fetch owns the view now
		return nil
	}
	v.state = StateReady
	if err != nil {
		// keep the last good list; the caller may retry
		return err
	}
	v.items = items
	v.summary = summary
	return nil
}

// SetOwner points the view at another user's cart. The epoch bump makes
// any in-flight fetch for the previous owner stale, so its result can
// never be shown to the new one.
func (v *View) SetOwner(ownerID uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if ownerID == v.ownerID {
		return
	}
	v.ownerID = ownerID
	v.epoch++
	v.state = StateLoading
	v.items = nil
	v.summary = pricing.OrderSummary{}
}

// RequestAdjust replaces size and quantity of one line, then refetches.
// On failure nothing of the view changes and the notifier carries the bad
// news; the caller may retry with the same values.
func (v *View) RequestAdjust(ctx context.Context, itemID uuid.UUID, size int, quantity uint) error {
	title, err := v.beginMutation(itemID)
	if err != nil {
		return err
	}

	if err := v.svc.UpdateItem(ctx, itemID, size, quantity); err != nil {
		v.abortMutation()
		v.failure(fmt.Sprintf("Could not adjust %s, please try again", title))
		return err
	}

	v.success(fmt.Sprintf("Adjusted %s successfully", title))
	err = v.Refresh(ctx)
	v.endMutation()
	return err
}

// RequestDelete removes one line, then refetches.
func (v *View) RequestDelete(ctx context.Context, itemID uuid.UUID) error {
	title, err := v.beginMutation(itemID)
	if err != nil {
		return err
	}

	if err := v.svc.DeleteItem(ctx, itemID); err != nil {
		v.abortMutation()
		v.failure(fmt.Sprintf("Could not delete %s, please try again", title))
		return err
	}

	v.success(fmt.Sprintf("Deleted %s successfully", title))
	err = v.Refresh(ctx)
	v.endMutation()
	return err
}

// beginMutation gates a mutation on the Ready state and resolves the item
// title for the notification. The view stays busy until the mutation
// either aborts or the follow-up refetch completes; a refresh resolving
// in between does not lift the gate.
func (v *View) beginMutation(itemID uuid.UUID) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateReady || v.mutating {
		return "", ErrBusy
	}
	for _, item := range v.items {
		if item.ID == itemID {
			v.mutating = true
			v.mutationEpoch = v.epoch
			v.state = StateLoading
			return item.Product.Title, nil
		}
	}
	return "", ErrNotFound
}

// abortMutation ends a failed mutation; items and summary were never
// touched. The Ready state is restored only if no refresh started in the
// meantime; an in-flight refresh resolves the state itself.
func (v *View) abortMutation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mutating = false
	if v.epoch == v.mutationEpoch {
		v.state = StateReady
	}
}

// endMutation lifts the mutation gate once the post-mutation refetch has
// run; the refetch owns the state transition.
func (v *View) endMutation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mutating = false
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *View) Owner() uuid.UUID {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ownerID
}

// Items returns a copy of the current line-item list. Callers stage their
// edits on the copy; the view keeps exclusive ownership of the original.
func (v *View) Items() []models.LineItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.LineItem, len(v.items))
	copy(out, v.items)
	return out
}

// Item looks up one line by id.
func (v *View) Item(itemID uuid.UUID) (models.LineItem, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, item := range v.items {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.LineItem{}, false
}

func (v *View) Summary() pricing.OrderSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary
}

func (v *View) success(message string) {
	if v.notify != nil {
		v.notify.Success(message)
	}
}

func (v *View) failure(message string) {
	if v.notify != nil {
		v.notify.Failure(message)
	}
}
