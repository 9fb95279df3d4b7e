package pricing

import (
	"errors"
	"fmt"

	"github.com/glorimarket/cart_service/internal/models"
	"github.com/shopspring/decimal"
)

var ErrValidation = errors.New("validation")

// Bottle sizes sold, in milliliters. A product's base price always refers
// to the 50ml bottle; bigger bottles carry a flat surcharge.
const (
	SizeSmall  = 50
	SizeMedium = 100
	SizeLarge  = 200
)

var surcharges = map[int]decimal.Decimal{
	SizeSmall:  decimal.Zero,
	SizeMedium: decimal.NewFromInt(50),
	SizeLarge:  decimal.NewFromInt(100),
}

// ValidSize reports whether size is one of the bottle sizes sold.
func ValidSize(size int) bool {
	_, ok := surcharges[size]
	return ok
}

// Surcharge returns the flat price bump for a bottle size.
func Surcharge(size int) (decimal.Decimal, error) {
	s, ok := surcharges[size]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("size %d is not one of 50/100/200: %w", size, ErrValidation)
	}
	return s, nil
}

// LineTotal prices a single cart line: basePrice*quantity + surcharge(size).
func LineTotal(basePrice decimal.Decimal, size int, quantity uint) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Decimal{}, fmt.Errorf("quantity must be a positive integer: %w", ErrValidation)
	}
	surcharge, err := Surcharge(size)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return basePrice.Mul(decimal.NewFromInt(int64(quantity))).Add(surcharge), nil
}

// Config carries the per-order constants. Shipping and tax are flat for
// the whole order regardless of item count.
type Config struct {
	Shipping decimal.Decimal
	Tax      decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		Shipping: decimal.RequireFromString("24.55"),
		Tax:      decimal.RequireFromString("14.09"),
	}
}

// OrderSummary is derived, never persisted. It is recomputed from scratch
// on every fetch rather than patched incrementally, so it cannot drift
// from the line items after a partial mutation.
type OrderSummary struct {
	LineTotals []decimal.Decimal `json:"line_totals"`
	ItemCount  int               `json:"item_count"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Shipping   decimal.Decimal   `json:"shipping"`
	Tax        decimal.Decimal   `json:"tax"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

// Empty reports whether the order has no items. The item count is the
// signal, never the subtotal: a non-empty order can still price to zero.
func (s OrderSummary) Empty() bool {
	return s.ItemCount == 0
}

// Summarize prices a whole cart. Line totals keep fetch order; an empty
// cart yields a well-formed summary with subtotal zero.
func Summarize(cfg Config, items []models.LineItem) (OrderSummary, error) {
	summary := OrderSummary{
		LineTotals: make([]decimal.Decimal, 0, len(items)),
		ItemCount:  len(items),
		Subtotal:   decimal.Zero,
		Shipping:   cfg.Shipping,
		Tax:        cfg.Tax,
	}
	for _, item := range items {
		total, err := LineTotal(item.Product.BasePrice, item.Size, item.Quantity)
		if err != nil {
			return OrderSummary{}, fmt.Errorf("item %s: %w", item.ID, err)
		}
		summary.LineTotals = append(summary.LineTotals, total)
		summary.Subtotal = summary.Subtotal.Add(total)
	}
	summary.GrandTotal = summary.Subtotal.Add(cfg.Shipping).Add(cfg.Tax)
	return summary, nil
}
