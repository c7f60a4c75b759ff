package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greenTea() *MenuItem {
	return &MenuItem{ID: "item-green-tea", Name: "Green Tea Latte", Price: 4500, Cost: 1800, Available: true}
}

func brownSugar() *MenuItem {
	return &MenuItem{ID: "item-brown-sugar", Name: "Brown Sugar Boba", Price: 6000, Cost: 2500, Available: true}
}

// ---------------------------------------------------------------------------
// Item mutations
// ---------------------------------------------------------------------------

func TestCartAddItem(t *testing.T) {
	t.Run("adds new line with snapshotted price", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, "item-green-tea", cart.Items[0].MenuItemID)
		assert.Equal(t, int64(4500), cart.Items[0].UnitPrice)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, int64(9000), cart.Subtotal)
	})

	t.Run("merges quantities for the same item", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)
		cart.AddItem(greenTea(), 1)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.Equal(t, int64(13500), cart.Subtotal)
	})

	t.Run("later menu price change does not reprice the line", func(t *testing.T) {
		cart := NewCart("sess-1")
		item := greenTea()
		cart.AddItem(item, 1)

		item.Price = 9900
		cart.AddItem(item, 1)

		// The merged line keeps the original snapshot price.
		require.Len(t, cart.Items, 1)
		assert.Equal(t, int64(4500), cart.Items[0].UnitPrice)
		assert.Equal(t, int64(9000), cart.Subtotal)
	})
}

func TestCartRemoveItem(t *testing.T) {
	cart := NewCart("sess-1")
	cart.AddItem(greenTea(), 2)
	cart.AddItem(brownSugar(), 1)

	cart.RemoveItem("item-green-tea")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(6000), cart.Subtotal)

	// Removing an absent item is a no-op.
	cart.RemoveItem("item-missing")
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(6000), cart.Subtotal)
}

func TestCartSetQuantity(t *testing.T) {
	t.Run("replaces quantity", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)

		cart.SetQuantity("item-green-tea", 5)
		assert.Equal(t, 5, cart.Items[0].Quantity)
		assert.Equal(t, int64(22500), cart.Subtotal)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)

		cart.SetQuantity("item-green-tea", 0)
		assert.Empty(t, cart.Items)
		assert.Equal(t, int64(0), cart.Subtotal)
	})

	t.Run("negative removes the line", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)

		cart.SetQuantity("item-green-tea", -3)
		assert.Empty(t, cart.Items)
	})

	t.Run("absent item is a no-op", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)

		cart.SetQuantity("item-missing", 7)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
	})
}

// ---------------------------------------------------------------------------
// Pricing
// ---------------------------------------------------------------------------

func TestCartPricing(t *testing.T) {
	t.Run("two lattes and one boba total 150.00", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)
		cart.AddItem(brownSugar(), 1)

		assert.Equal(t, int64(15000), cart.Subtotal)
		assert.Equal(t, int64(0), cart.Discount)
		assert.Equal(t, int64(15000), cart.Total)
	})

	t.Run("fixed 20.00 off with met minimum gives 130.00", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)
		cart.AddItem(brownSugar(), 1)

		cart.ApplyPromotion(&Promotion{
			ID: "promo-1", Type: PromotionFixed, Value: 2000, MinOrderAmount: 10000, Active: true,
		})

		assert.Equal(t, int64(15000), cart.Subtotal)
		assert.Equal(t, int64(2000), cart.Discount)
		assert.Equal(t, int64(13000), cart.Total)
	})

	t.Run("unmet minimum keeps promotion attached with zero discount", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)
		cart.AddItem(brownSugar(), 1)

		cart.ApplyPromotion(&Promotion{
			ID: "promo-2", Type: PromotionPercentage, Value: 10, MinOrderAmount: 20000, Active: true,
		})

		assert.NotNil(t, cart.Promotion)
		assert.Equal(t, int64(0), cart.Discount)
		assert.Equal(t, int64(15000), cart.Total)
	})

	t.Run("discount reactivates when threshold becomes met", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)
		cart.ApplyPromotion(&Promotion{
			ID: "promo-2", Type: PromotionPercentage, Value: 10, MinOrderAmount: 12000, Active: true,
		})
		assert.Equal(t, int64(0), cart.Discount)

		cart.AddItem(brownSugar(), 1)
		assert.Equal(t, int64(1500), cart.Discount)
		assert.Equal(t, int64(13500), cart.Total)
	})

	t.Run("fixed discount larger than subtotal floors total at zero", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 1)
		cart.ApplyPromotion(&Promotion{ID: "promo-3", Type: PromotionFixed, Value: 10000, Active: true})

		assert.Equal(t, int64(4500), cart.Discount)
		assert.Equal(t, int64(0), cart.Total)
	})

	t.Run("removing promotion restores full total", func(t *testing.T) {
		cart := NewCart("sess-1")
		cart.AddItem(greenTea(), 2)
		cart.ApplyPromotion(&Promotion{ID: "promo-1", Type: PromotionFixed, Value: 2000, Active: true})
		require.Equal(t, int64(7000), cart.Total)

		cart.RemovePromotion()
		assert.Nil(t, cart.Promotion)
		assert.Equal(t, int64(0), cart.Discount)
		assert.Equal(t, int64(9000), cart.Total)
	})
}

func TestCartClear(t *testing.T) {
	cart := NewCart("sess-1")
	cart.AddItem(greenTea(), 2)
	cart.ApplyPromotion(&Promotion{ID: "promo-1", Type: PromotionFixed, Value: 2000, Active: true})

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Nil(t, cart.Promotion)
	assert.Equal(t, int64(0), cart.Subtotal)
	assert.Equal(t, int64(0), cart.Discount)
	assert.Equal(t, int64(0), cart.Total)
}
