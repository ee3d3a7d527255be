package core

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinxiu-shop/storefront/internal/store"
)

// OrderService holds every order placed in the shop, newest first.
type OrderService struct {
	snapshots *store.SnapshotStore
	carts     *CartService

	mu     sync.Mutex
	orders []store.Order

	now func() time.Time
}

func NewOrderService(snapshots *store.SnapshotStore, carts *CartService) *OrderService {
	s := &OrderService{
		snapshots: snapshots,
		carts:     carts,
		now:       time.Now,
	}

	var saved []store.Order
	ok, err := snapshots.Load(store.KeyOrders, &saved)
	if err != nil {
		log.Printf("Failed to load orders snapshot, starting empty: %v", err)
	}
	if ok && saved != nil {
		s.orders = saved
	}
	return s
}

// Checkout turns the user's cart into a pending order and clears the cart.
// An empty cart yields nil. Payment is a demo no-op: the order is created
// already "paid", there is no gateway behind it.
func (s *OrderService) Checkout(user store.User) *store.Order {
	items := s.carts.Items(user.ID)
	if len(items) == 0 {
		return nil
	}

	order := store.Order{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Items:     items,
		Total:     totals(items).Total,
		Status:    store.OrderPending,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.orders = append([]store.Order{order}, s.orders...)
	s.persistLocked()
	s.mu.Unlock()

	s.carts.Clear(user.ID)
	return &order
}

// ListByUser returns the user's orders, newest first.
func (s *OrderService) ListByUser(userID string) []store.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll() []store.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.Order(nil), s.orders...)
}

// Get returns the order with the given id, or nil.
func (s *OrderService) Get(id string) *store.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			order := o
			return &order
		}
	}
	return nil
}

// UpdateStatus sets an order's status. Unknown ids and unknown statuses are
// no-ops reporting false; matched orders simply change in place.
func (s *OrderService) UpdateStatus(id string, status store.OrderStatus) bool {
	switch status {
	case store.OrderPending, store.OrderShipped, store.OrderDelivered, store.OrderCancelled:
	default:
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID == id {
			s.orders[i].Status = status
			s.persistLocked()
			return true
		}
	}
	return false
}

func (s *OrderService) persistLocked() {
	if err := s.snapshots.Save(store.KeyOrders, s.orders); err != nil {
		log.Printf("Failed to persist orders snapshot: %v", err)
	}
}
