package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinxiu-shop/storefront/internal/store"
)

func testProduct(id string, price float64) store.Product {
	return store.Product{ID: id, Name: "product " + id, Price: price}
}

func TestCartAddIncrementsExistingItem(t *testing.T) {
	carts := NewCartService(newTestSnapshots(t))

	carts.Add("u1", testProduct("p1", 100))
	carts.Add("u1", testProduct("p1", 100))
	carts.Add("u1", testProduct("p2", 50))

	items := carts.Items("u1")
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestCartAdjustQuantityDropsAtZero(t *testing.T) {
	carts := NewCartService(newTestSnapshots(t))

	carts.Add("u1", testProduct("p1", 100))
	carts.AdjustQuantity("u1", "p1", 2)
	require.Equal(t, 3, carts.Items("u1")[0].Quantity)

	carts.AdjustQuantity("u1", "p1", -3)
	assert.Empty(t, carts.Items("u1"))

	// Unknown product ids are no-ops.
	carts.AdjustQuantity("u1", "nope", 1)
	assert.Empty(t, carts.Items("u1"))
}

func TestCartTotalsShippingRule(t *testing.T) {
	carts := NewCartService(newTestSnapshots(t))

	// Subtotal at exactly the threshold still pays shipping.
	carts.Add("u1", testProduct("p1", 500))
	totals := carts.Totals("u1")
	assert.Equal(t, 500.0, totals.Subtotal)
	assert.Equal(t, 20.0, totals.Shipping)
	assert.Equal(t, 520.0, totals.Total)

	// One yuan over the threshold ships free.
	carts.Add("u1", testProduct("p2", 1))
	totals = carts.Totals("u1")
	assert.Equal(t, 501.0, totals.Subtotal)
	assert.Zero(t, totals.Shipping)
	assert.Equal(t, 501.0, totals.Total)

	// Empty cart prices to zero throughout.
	assert.Zero(t, carts.Totals("nobody").Total)
}

func TestCartsAreIndependentPerUser(t *testing.T) {
	carts := NewCartService(newTestSnapshots(t))

	carts.Add("u1", testProduct("p1", 100))
	carts.Add("u2", testProduct("p2", 200))

	carts.Clear("u1")
	assert.Empty(t, carts.Items("u1"))
	assert.Len(t, carts.Items("u2"), 1)
}

func TestCartPersistsAcrossReload(t *testing.T) {
	snapshots := newTestSnapshots(t)
	carts := NewCartService(snapshots)
	carts.Add("u1", testProduct("p1", 100))

	reloaded := NewCartService(snapshots)
	require.Len(t, reloaded.Items("u1"), 1)
	assert.Equal(t, "p1", reloaded.Items("u1")[0].ID)
}
