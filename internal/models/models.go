package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is the catalog row a cart line points at. The cart only ever
// reads it: title, photo set and the 50ml base price.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	Title     string          `gorm:"not null"                    json:"title"`
	Photos    datatypes.JSON  `json:"photos"`
	BasePrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	CreatedAt time.Time       `json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}

// CartItem is one persisted cart line: a product at a chosen bottle size,
// in some quantity, owned by a user. Size and quantity are only ever
// replaced together through the adjustment flow.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null"   json:"owner_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"         json:"product_id"`
	Size      int       `gorm:"not null"                   json:"size"`
	Quantity  uint      `gorm:"default:1;check:quantity>0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	Product   Product   `gorm:"foreignKey:ProductID"       json:"product"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// ProductSnapshot is the read-only product view joined onto a line item at
// fetch time.
type ProductSnapshot struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Photos    []string        `json:"photos"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// LineItem is the strict read model the rest of the system works with.
// The repository builds it from a cart row and its product; rows with a
// size outside the bottle enumeration never make it this far.
type LineItem struct {
	ID       uuid.UUID       `json:"id"`
	OwnerID  uuid.UUID       `json:"owner_id"`
	Product  ProductSnapshot `json:"product"`
	Size     int             `json:"size"`
	Quantity uint            `json:"quantity"`
}

// Snapshot converts a fetched product row into its read-only view.
func (p Product) Snapshot() ProductSnapshot {
	var photos []string
	if len(p.Photos) > 0 {
		// a malformed photo column only costs us the thumbnails
		_ = json.Unmarshal(p.Photos, &photos)
	}
	return ProductSnapshot{
		ID:        p.ID,
		Title:     p.Title,
		Photos:    photos,
		BasePrice: p.BasePrice,
	}
}
