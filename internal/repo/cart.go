package repo

import (
	"context"
	"fmt"

	"github.com/glorimarket/cart_service/internal/models"
	"github.com/glorimarket/cart_service/internal/pricing"
	"github.com/google/uuid"
)

// FetchItems returns every cart line owned by the user, oldest first, each
// joined with its product snapshot. An empty cart is a valid, non-error
// result.
func (r *GormRepo) FetchItems(ctx context.Context, ownerID uuid.UUID) ([]models.LineItem, error) {
	var rows []models.CartItem
	err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]models.LineItem, 0, len(rows))
	for _, row := range rows {
		if !pricing.ValidSize(row.Size) {
			return nil, fmt.Errorf("cart item %s has size %d: %w", row.ID, row.Size, ErrSizeOutOfRange)
		}
		items = append(items, models.LineItem{
			ID:       row.ID,
			OwnerID:  row.OwnerID,
			Product:  row.Product.Snapshot(),
			Size:     row.Size,
			Quantity: row.Quantity,
		})
	}
	return items, nil
}

// UpdateItem replaces size and quantity of one cart line together, never
// one without the other. The bool result reports whether a row was hit;
// updating an item to the values it already has still counts as a hit.
func (r *GormRepo) UpdateItem(ctx context.Context, itemID uuid.UUID, size int, quantity uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{"size": size, "quantity": quantity})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteItem removes one cart line. The bool result reports whether a row
// was hit.
func (r *GormRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
