package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinxiu-shop/storefront/internal/store"
)

func newTestCatalog(t *testing.T) *CatalogService {
	t.Helper()
	return NewCatalogService(newTestSnapshots(t))
}

func TestCatalogSeedsOnFreshDatabase(t *testing.T) {
	catalog := newTestCatalog(t)
	assert.Len(t, catalog.List("", ""), 5)
}

func TestCatalogListFilters(t *testing.T) {
	catalog := newTestCatalog(t)

	byName := catalog.List("龙凤", "")
	require.Len(t, byName, 1)
	assert.Equal(t, "1", byName[0].ID)

	byCategory := catalog.List("", "日常通勤")
	assert.Len(t, byCategory, 2)

	// CategoryAll matches everything, like the storefront's default tab.
	assert.Len(t, catalog.List("", CategoryAll), 5)

	both := catalog.List("宋韵", "日常通勤")
	require.Len(t, both, 1)
	assert.Equal(t, "3", both[0].ID)

	assert.Empty(t, catalog.List("宋韵", "传统礼服"))
}

func TestCatalogCategories(t *testing.T) {
	catalog := newTestCatalog(t)
	assert.Equal(t, []string{CategoryAll, "传统礼服", "新中式改良", "日常通勤"}, catalog.Categories())
}

func TestCatalogCRUD(t *testing.T) {
	catalog := newTestCatalog(t)

	added := catalog.Add(store.Product{Name: "云锦披帛", Category: "配饰", Price: 199})
	require.NotEmpty(t, added.ID)

	// New products go to the front of the list.
	assert.Equal(t, added.ID, catalog.List("", "")[0].ID)

	added.Price = 189
	require.True(t, catalog.Update(added))
	got := catalog.Get(added.ID)
	require.NotNil(t, got)
	assert.Equal(t, 189.0, got.Price)

	assert.False(t, catalog.Update(store.Product{ID: "missing"}), "unknown id must be a no-op")

	require.True(t, catalog.Delete(added.ID))
	assert.Nil(t, catalog.Get(added.ID))
	assert.False(t, catalog.Delete(added.ID))
}

func TestCatalogPersistsAcrossReload(t *testing.T) {
	snapshots := newTestSnapshots(t)
	catalog := NewCatalogService(snapshots)

	catalog.Add(store.Product{ID: "p-new", Name: "含烟青罗裙", Category: "日常通勤"})
	catalog.Delete("5")

	reloaded := NewCatalogService(snapshots)
	assert.NotNil(t, reloaded.Get("p-new"))
	assert.Nil(t, reloaded.Get("5"))
	assert.Len(t, reloaded.List("", ""), 5)
}
