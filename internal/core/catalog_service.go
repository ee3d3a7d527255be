package core

import (
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jinxiu-shop/storefront/internal/store"
)

// CategoryAll is the pseudo-category matching every product.
const CategoryAll = "全部"

// CatalogService holds the product catalog. Shoppers filter and read it,
// the merchant mutates it.
type CatalogService struct {
	snapshots *store.SnapshotStore

	mu       sync.Mutex
	products []store.Product
}

func NewCatalogService(snapshots *store.SnapshotStore) *CatalogService {
	s := &CatalogService{snapshots: snapshots}

	var saved []store.Product
	ok, err := snapshots.Load(store.KeyProducts, &saved)
	if err != nil {
		log.Printf("Failed to load products snapshot, using seed catalog: %v", err)
	}
	if ok && saved != nil {
		s.products = saved
	} else {
		s.products = store.SeedProducts()
	}
	return s
}

// List returns products matching a case-insensitive name substring and a
// category. Empty search matches everything, as does CategoryAll or an
// empty category.
func (s *CatalogService) List(search, category string) []store.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	search = strings.ToLower(search)
	out := make([]store.Product, 0, len(s.products))
	for _, p := range s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns CategoryAll followed by the distinct product
// categories in catalog order.
func (s *CatalogService) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	out := []string{CategoryAll}
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Get returns the product with the given id, or nil.
func (s *CatalogService) Get(id string) *store.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			product := p
			return &product
		}
	}
	return nil
}

// Add prepends a new product, assigning an id when the caller left it empty.
func (s *CatalogService) Add(product store.Product) store.Product {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.products = append([]store.Product{product}, s.products...)
	s.persistLocked()
	s.mu.Unlock()

	return product
}

// Update replaces the product with a matching id. An unknown id is a no-op
// and reports false.
func (s *CatalogService) Update(product store.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == product.ID {
			s.products[i] = product
			s.persistLocked()
			return true
		}
	}
	return false
}

// Delete removes the product with the given id. An unknown id is a no-op.
func (s *CatalogService) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.persistLocked()
			return true
		}
	}
	return false
}

func (s *CatalogService) persistLocked() {
	if err := s.snapshots.Save(store.KeyProducts, s.products); err != nil {
		log.Printf("Failed to persist products snapshot: %v", err)
	}
}
