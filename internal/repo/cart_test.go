package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/glorimarket/cart_service/internal/models"
	"github.com/glorimarket/cart_service/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.CartItem{}))

	return &GormRepo{DB: db}
}

func seedProduct(t *testing.T, r *GormRepo, title, basePrice string) models.Product {
	t.Helper()

	p := models.Product{
		Title:     title,
		Photos:    datatypes.JSON(`["front.jpg","side.jpg","back.jpg"]`),
		BasePrice: decimal.RequireFromString(basePrice),
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return p
}

func seedItem(t *testing.T, r *GormRepo, ownerID uuid.UUID, p models.Product, size int, quantity uint) models.CartItem {
	t.Helper()

	item := models.CartItem{
		OwnerID:   ownerID,
		ProductID: p.ID,
		Size:      size,
		Quantity:  quantity,
	}
	require.NoError(t, r.DB.Create(&item).Error)
	return item
}

func TestFetchItems(t *testing.T) {
	r := newTestRepo(t)
	owner := uuid.New()
	other := uuid.New()

	p := seedProduct(t, r, "Oud Royale", "80")
	seedItem(t, r, owner, p, pricing.SizeSmall, 1)
	seedItem(t, r, other, p, pricing.SizeLarge, 2)

	items, err := r.FetchItems(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, pricing.SizeSmall, got.Size)
	assert.Equal(t, uint(1), got.Quantity)
	assert.Equal(t, "Oud Royale", got.Product.Title)
	assert.Equal(t, []string{"front.jpg", "side.jpg", "back.jpg"}, got.Product.Photos)
	assert.True(t, got.Product.BasePrice.Equal(decimal.NewFromInt(80)))
}

func TestFetchItems_Empty(t *testing.T) {
	r := newTestRepo(t)

	items, err := r.FetchItems(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestFetchItems_RejectsSizeOutOfRange(t *testing.T) {
	r := newTestRepo(t)
	owner := uuid.New()

	p := seedProduct(t, r, "Oud Royale", "80")
	seedItem(t, r, owner, p, 75, 1)

	_, err := r.FetchItems(context.Background(), owner)
	require.ErrorIs(t, err, ErrSizeOutOfRange)
}

func TestUpdateItem(t *testing.T) {
	r := newTestRepo(t)
	owner := uuid.New()

	p := seedProduct(t, r, "Oud Royale", "60")
	item := seedItem(t, r, owner, p, pricing.SizeSmall, 1)

	ok, err := r.UpdateItem(context.Background(), item.ID, pricing.SizeLarge, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := r.FetchItems(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, pricing.SizeLarge, items[0].Size)
	assert.Equal(t, uint(3), items[0].Quantity)
}

func TestUpdateItem_SameValues(t *testing.T) {
	r := newTestRepo(t)
	owner := uuid.New()

	p := seedProduct(t, r, "Oud Royale", "60")
	item := seedItem(t, r, owner, p, pricing.SizeMedium, 2)

	ok, err := r.UpdateItem(context.Background(), item.ID, pricing.SizeMedium, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateItem_NotFound(t *testing.T) {
	r := newTestRepo(t)

	ok, err := r.UpdateItem(context.Background(), uuid.New(), pricing.SizeMedium, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteItem(t *testing.T) {
	r := newTestRepo(t)
	owner := uuid.New()

	p := seedProduct(t, r, "Oud Royale", "60")
	item := seedItem(t, r, owner, p, pricing.SizeSmall, 1)

	ok, err := r.DeleteItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := r.FetchItems(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, items, 0)

	// a second delete of the same row misses
	ok, err = r.DeleteItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetchItems_KeepsInsertionOrder(t *testing.T) {
	r := newTestRepo(t)
	owner := uuid.New()

	first := seedProduct(t, r, "Oud Royale", "80")
	second := seedProduct(t, r, "Rose Atlas", "120")
	seedItem(t, r, owner, first, pricing.SizeSmall, 1)
	seedItem(t, r, owner, second, pricing.SizeLarge, 1)

	items, err := r.FetchItems(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Oud Royale", items[0].Product.Title)
	assert.Equal(t, "Rose Atlas", items[1].Product.Title)
}
