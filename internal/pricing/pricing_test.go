package pricing

import (
	"testing"

	"github.com/glorimarket/cart_service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(basePrice string, size int, quantity uint) models.LineItem {
	return models.LineItem{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Product: models.ProductSnapshot{
			ID:        uuid.New(),
			Title:     "Test Perfume",
			BasePrice: decimal.RequireFromString(basePrice),
		},
		Size:     size,
		Quantity: quantity,
	}
}

func TestSurcharge(t *testing.T) {
	t.Parallel()

	cases := []struct {
		size int
		want string
	}{
		{SizeSmall, "0"},
		{SizeMedium, "50"},
		{SizeLarge, "100"},
	}
	for _, tc := range cases {
		got, err := Surcharge(tc.size)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "size %d", tc.size)
	}

	for _, size := range []int{0, -50, 75, 150, 500} {
		_, err := Surcharge(size)
		require.ErrorIs(t, err, ErrValidation, "size %d", size)
		assert.False(t, ValidSize(size))
	}
}

func TestLineTotal(t *testing.T) {
	t.Parallel()

	got, err := LineTotal(decimal.NewFromInt(100), SizeMedium, 2)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(250)), "got %s", got)

	got, err = LineTotal(decimal.NewFromInt(60), SizeLarge, 3)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(280)), "got %s", got)
}

func TestLineTotal_Formula(t *testing.T) {
	t.Parallel()

	// basePrice*quantity + surcharge(size) over the whole editable range
	prices := []string{"0", "19.99", "80", "120.50"}
	for _, p := range prices {
		base := decimal.RequireFromString(p)
		for _, size := range []int{SizeSmall, SizeMedium, SizeLarge} {
			surcharge, err := Surcharge(size)
			require.NoError(t, err)
			for quantity := uint(1); quantity <= 5; quantity++ {
				want := base.Mul(decimal.NewFromInt(int64(quantity))).Add(surcharge)
				got, err := LineTotal(base, size, quantity)
				require.NoError(t, err)
				assert.True(t, got.Equal(want), "base=%s size=%d qty=%d: got %s want %s", p, size, quantity, got, want)
			}
		}
	}
}

func TestLineTotal_Invalid(t *testing.T) {
	t.Parallel()

	_, err := LineTotal(decimal.NewFromInt(100), SizeSmall, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = LineTotal(decimal.NewFromInt(100), 75, 1)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	items := []models.LineItem{
		item("80", SizeSmall, 1),
		item("120", SizeLarge, 1),
	}

	summary, err := Summarize(DefaultConfig(), items)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ItemCount)
	assert.False(t, summary.Empty())
	require.Len(t, summary.LineTotals, 2)
	assert.True(t, summary.LineTotals[0].Equal(decimal.NewFromInt(80)))
	assert.True(t, summary.LineTotals[1].Equal(decimal.NewFromInt(220)))
	assert.True(t, summary.Subtotal.Equal(decimal.NewFromInt(300)), "subtotal %s", summary.Subtotal)
	assert.True(t, summary.GrandTotal.Equal(decimal.RequireFromString("338.64")), "grand total %s", summary.GrandTotal)
}

func TestSummarize_GrandTotalExact(t *testing.T) {
	t.Parallel()

	items := []models.LineItem{
		item("19.99", SizeMedium, 3),
		item("0.01", SizeSmall, 5),
	}
	cfg := DefaultConfig()

	summary, err := Summarize(cfg, items)
	require.NoError(t, err)

	want := summary.Subtotal.Add(cfg.Shipping).Add(cfg.Tax)
	assert.True(t, summary.GrandTotal.Equal(want))
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	summary, err := Summarize(DefaultConfig(), nil)
	require.NoError(t, err)

	assert.True(t, summary.Empty())
	assert.Equal(t, 0, summary.ItemCount)
	assert.Len(t, summary.LineTotals, 0)
	assert.True(t, summary.Subtotal.Equal(decimal.Zero))
	assert.True(t, summary.GrandTotal.Equal(decimal.RequireFromString("38.64")))
}

func TestSummarize_ZeroSubtotalIsNotEmpty(t *testing.T) {
	t.Parallel()

	// a free 50ml sample prices to zero but the cart is not empty
	summary, err := Summarize(DefaultConfig(), []models.LineItem{item("0", SizeSmall, 1)})
	require.NoError(t, err)

	assert.True(t, summary.Subtotal.Equal(decimal.Zero))
	assert.False(t, summary.Empty())
}

func TestSummarize_Deterministic(t *testing.T) {
	t.Parallel()

	items := []models.LineItem{
		item("49.95", SizeMedium, 2),
		item("150", SizeLarge, 4),
	}

	first, err := Summarize(DefaultConfig(), items)
	require.NoError(t, err)
	second, err := Summarize(DefaultConfig(), items)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSummarize_RejectsBadSize(t *testing.T) {
	t.Parallel()

	_, err := Summarize(DefaultConfig(), []models.LineItem{item("80", 75, 1)})
	require.ErrorIs(t, err, ErrValidation)
}
