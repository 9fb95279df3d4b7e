package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicCartItemAdjusted = "cart_item_adjusted"
	TopicCartItemDeleted  = "cart_item_deleted"
)

// CartItemAdjusted is published after a size/quantity replace has been
// persisted.
type CartItemAdjusted struct {
	ItemID     uuid.UUID `json:"item_id"`
	Size       int       `json:"size"`
	Quantity   uint      `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CartItemDeleted is published after a cart line has been removed.
type CartItemDeleted struct {
	ItemID     uuid.UUID `json:"item_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
