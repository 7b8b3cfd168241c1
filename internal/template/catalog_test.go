package template

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
)

func TestCatalog_ListAll(t *testing.T) {
	catalog := NewCatalog()

	templates := catalog.List("")

	assert.Len(t, templates, 8)
	assert.Equal(t, "mall-wide-sale", templates[0].ID)
}

func TestCatalog_ListFiltersByExactCategory(t *testing.T) {
	catalog := NewCatalog()

	promotional := catalog.List("promotional")

	assert.Len(t, promotional, 2)
	for _, tmpl := range promotional {
		assert.Equal(t, "promotional", tmpl.Category)
	}

	assert.Empty(t, catalog.List("promo"))
}

func TestCatalog_Get(t *testing.T) {
	catalog := NewCatalog()

	tmpl, err := catalog.Get("flash-deal")

	assert.NoError(t, err)
	assert.Equal(t, "Flash Deal (24h)", tmpl.Name)
	assert.Equal(t, "/welcome?utm_source=qr&utm_campaign=flash_deal_24h", tmpl.DefaultLandingPath)
}

func TestCatalog_GetUnknown(t *testing.T) {
	catalog := NewCatalog()

	tmpl, err := catalog.Get("does-not-exist")

	assert.Nil(t, tmpl)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCatalog_CategoriesAreDistinct(t *testing.T) {
	catalog := NewCatalog()

	categories := catalog.Categories()

	assert.Equal(t, []string{"promotional", "event", "trust-building", "seasonal", "loyalty", "community"}, categories)
}
