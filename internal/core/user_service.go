package core

import (
	"log"
	"sync"

	"github.com/jinxiu-shop/storefront/internal/store"
)

// UserService fabricates and remembers demo users. Login is simulated:
// picking a role yields that role's canned account, there is no credential
// check behind it.
type UserService struct {
	snapshots *store.SnapshotStore

	mu    sync.Mutex
	users map[string]store.User
}

func NewUserService(snapshots *store.SnapshotStore) *UserService {
	s := &UserService{snapshots: snapshots}

	var saved map[string]store.User
	ok, err := snapshots.Load(store.KeyUsers, &saved)
	if err != nil {
		log.Printf("Failed to load users snapshot, starting empty: %v", err)
	}
	if ok && saved != nil {
		s.users = saved
	} else {
		s.users = make(map[string]store.User)
	}
	return s
}

// Login fabricates the demo user for the requested role. The submitted
// email is kept for display when present, otherwise the canned one is used.
func (s *UserService) Login(email string, role store.UserRole) store.User {
	user := store.DemoShopper
	if role == store.RoleMerchant {
		user = store.DemoMerchant
	}
	if email != "" {
		user.Email = email
	}

	s.mu.Lock()
	s.users[user.ID] = user
	s.persistLocked()
	s.mu.Unlock()

	return user
}

// Get returns a previously seen user, or nil.
func (s *UserService) Get(id string) *store.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		return &user
	}
	return nil
}

func (s *UserService) persistLocked() {
	if err := s.snapshots.Save(store.KeyUsers, s.users); err != nil {
		log.Printf("Failed to persist users snapshot: %v", err)
	}
}
