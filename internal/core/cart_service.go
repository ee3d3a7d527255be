package core

import (
	"log"
	"sync"

	"github.com/jinxiu-shop/storefront/internal/store"
)

// Free shipping above this subtotal, flat fee below it.
const (
	freeShippingThreshold = 500.0
	flatShippingFee       = 20.0
)

// CartTotals is the priced-out view of a cart.
type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// CartService holds one cart per shopper, keyed by user id.
type CartService struct {
	snapshots *store.SnapshotStore

	mu    sync.Mutex
	carts map[string][]store.CartItem
}

func NewCartService(snapshots *store.SnapshotStore) *CartService {
	s := &CartService{snapshots: snapshots}

	var saved map[string][]store.CartItem
	ok, err := snapshots.Load(store.KeyCarts, &saved)
	if err != nil {
		log.Printf("Failed to load carts snapshot, starting empty: %v", err)
	}
	if ok && saved != nil {
		s.carts = saved
	} else {
		s.carts = make(map[string][]store.CartItem)
	}
	return s
}

// Add puts one unit of the product in the user's cart, incrementing the
// quantity when the product is already there.
func (s *CartService) Add(userID string, product store.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i, item := range items {
		if item.ID == product.ID {
			items[i].Quantity++
			s.carts[userID] = items
			s.persistLocked()
			return
		}
	}
	s.carts[userID] = append(items, store.CartItem{Product: product, Quantity: 1})
	s.persistLocked()
}

// AdjustQuantity changes an item's quantity by delta. An item adjusted to
// zero or below is dropped from the cart; an unknown product id is a no-op.
func (s *CartService) AdjustQuantity(userID, productID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i, item := range items {
		if item.ID != productID {
			continue
		}
		item.Quantity += delta
		if item.Quantity <= 0 {
			items = append(items[:i], items[i+1:]...)
		} else {
			items[i] = item
		}
		s.carts[userID] = items
		s.persistLocked()
		return
	}
}

// Remove drops an item from the cart regardless of quantity.
func (s *CartService) Remove(userID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i, item := range items {
		if item.ID == productID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.carts[userID]) == 0 {
		return
	}
	delete(s.carts, userID)
	s.persistLocked()
}

// Items returns a copy of the user's cart.
func (s *CartService) Items(userID string) []store.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.CartItem(nil), s.carts[userID]...)
}

// Totals prices out the user's cart.
func (s *CartService) Totals(userID string) CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totals(s.carts[userID])
}

func totals(items []store.CartItem) CartTotals {
	var t CartTotals
	for _, item := range items {
		t.Subtotal += item.Price * float64(item.Quantity)
	}
	if t.Subtotal > 0 && t.Subtotal <= freeShippingThreshold {
		t.Shipping = flatShippingFee
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}

func (s *CartService) persistLocked() {
	if err := s.snapshots.Save(store.KeyCarts, s.carts); err != nil {
		log.Printf("Failed to persist carts snapshot: %v", err)
	}
}
