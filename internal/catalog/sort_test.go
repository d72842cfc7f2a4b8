package catalog

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog-service/internal/models"
)

func TestSortByCreatedAtDesc(t *testing.T) {
	products := []models.Product{
		{ID: "jan", CreatedAt: "2024-01-01"},
		{ID: "mar", CreatedAt: "2024-03-01"},
		{ID: "feb", CreatedAt: "2024-02-01"},
	}

	assert.Equal(t, []string{"mar", "feb", "jan"}, ids(SortByCreatedAtDesc(products)))
	assert.Equal(t, "jan", products[0].ID, "input must not be reordered")
}

func TestSortByCreatedAtDesc_InvalidTimestampsSortLast(t *testing.T) {
	products := []models.Product{
		{ID: "missing"},
		{ID: "garbage", CreatedAt: "not-a-date"},
		{ID: "old", CreatedAt: "2020-05-01T10:00:00Z"},
		{ID: "new", CreatedAt: "2024-05-01T10:00:00.123Z"},
	}

	assert.Equal(t, []string{"new", "old", "missing", "garbage"}, ids(SortByCreatedAtDesc(products)))
}

func TestSortByCreatedAtDesc_MixedLayouts(t *testing.T) {
	products := []models.Product{
		{ID: "a", CreatedAt: "2024-01-02 08:00:00"},
		{ID: "b", CreatedAt: "2024-01-02T09:00:00"},
		{ID: "c", CreatedAt: "2024-01-02T07:00:00+00:00"},
	}

	assert.Equal(t, []string{"b", "a", "c"}, ids(SortByCreatedAtDesc(products)))
}

func TestSortByCreatedAtDesc_TiesKeepInputOrder(t *testing.T) {
	products := []models.Product{
		{ID: "first", CreatedAt: "2024-01-01"},
		{ID: "second", CreatedAt: "2024-01-01"},
		{ID: "third", CreatedAt: "2024-01-01"},
	}

	assert.Equal(t, []string{"first", "second", "third"}, ids(SortByCreatedAtDesc(products)))
}

func TestTruncate(t *testing.T) {
	products := []models.Product{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	assert.Len(t, Truncate(products, 2), 2)
	assert.Len(t, Truncate(products, 10), 3)
	assert.Len(t, Truncate(products, 0), 3)
}

func TestPaginate(t *testing.T) {
	products := make([]models.Product, 0, 50)
	for i := 0; i < 50; i++ {
		products = append(products, models.Product{ID: strconv.Itoa(i)})
	}

	page, total := Paginate(products, 1, 0)
	assert.Equal(t, 50, total)
	assert.Len(t, page, DefaultPageSize)

	page, _ = Paginate(products, 3, 24)
	assert.Len(t, page, 2)

	page, _ = Paginate(products, 4, 24)
	assert.Empty(t, page)
	assert.NotNil(t, page)

	page, _ = Paginate(products, 0, 10)
	assert.Equal(t, products[:10], page)

	page, total = Paginate(products[:2], 1<<62, 3)
	assert.Empty(t, page)
	assert.Equal(t, 2, total)

	page, _ = Paginate(products, math.MaxInt, math.MaxInt)
	assert.Empty(t, page)

	page, _ = Paginate(products, 1, math.MaxInt)
	assert.Len(t, page, 50)

	page, _ = Paginate(nil, 1, 10)
	assert.Empty(t, page)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 10))
	assert.Equal(t, 1, ClampPage(-5, 10))
	assert.Equal(t, 7, ClampPage(7, 10))
	assert.Equal(t, math.MaxInt/3, ClampPage(1<<62, 3))

	page := ClampPage(math.MaxInt, 24)
	assert.GreaterOrEqual(t, (page-1)*24, 0)
}
