package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog-service/internal/models"
)

func filterFixture() []models.Product {
	return []models.Product{
		{ID: "P1", ProductAttributeValues: []models.ProductAttributeValue{attr("Size", "M"), attr("Color", "Red")}},
		{ID: "P2", ProductAttributeValues: []models.ProductAttributeValue{attr("Size", "L"), attr("Color", "Red")}},
	}
}

func TestFilter_LabelsAreANDed(t *testing.T) {
	result := Filter(filterFixture(), models.FilterSelection{
		"Size":  {"M"},
		"Color": {"Red"},
	})

	assert.Equal(t, []string{"P1"}, ids(result))
}

func TestFilter_ValuesAreORed(t *testing.T) {
	result := Filter(filterFixture(), models.FilterSelection{"Size": {"M", "L"}})

	assert.Equal(t, []string{"P1", "P2"}, ids(result))
}

func TestFilter_EmptySelectionReturnsAll(t *testing.T) {
	products := filterFixture()

	assert.Equal(t, products, Filter(products, models.FilterSelection{}))
	assert.Equal(t, products, Filter(products, nil))
}

func TestFilter_EmptyValuesImposeNoConstraint(t *testing.T) {
	result := Filter(filterFixture(), models.FilterSelection{
		"Size":     {},
		"Material": nil,
		"Color":    {"Red"},
	})

	assert.Equal(t, []string{"P1", "P2"}, ids(result))
}

func TestFilter_CaseInsensitive(t *testing.T) {
	result := Filter(filterFixture(), models.FilterSelection{"size": {"m"}, "COLOR": {"rEd"}})

	assert.Equal(t, []string{"P1"}, ids(result))
}

func TestFilter_UnknownLabelExcludesEverything(t *testing.T) {
	result := Filter(filterFixture(), models.FilterSelection{"Fabric": {"Wool"}})

	assert.Empty(t, result)
	assert.NotNil(t, result)
}

func TestFilter_ProductsWithoutAttributes(t *testing.T) {
	products := append(filterFixture(), models.Product{ID: "P3"})

	assert.Equal(t, []string{"P1"}, ids(Filter(products, models.FilterSelection{"Size": {"M"}})))
	assert.Equal(t, []string{"P1", "P2", "P3"}, ids(Filter(products, models.FilterSelection{})))
}

func TestFilter_StableAndIdempotent(t *testing.T) {
	products := []models.Product{
		{ID: "c", ProductAttributeValues: []models.ProductAttributeValue{attr("Size", "M")}},
		{ID: "a", ProductAttributeValues: []models.ProductAttributeValue{attr("Size", "L")}},
		{ID: "b", ProductAttributeValues: []models.ProductAttributeValue{attr("Size", "M")}},
	}
	selection := models.FilterSelection{"Size": {"M", "L"}}

	first := Filter(products, selection)
	second := Filter(first, selection)

	assert.Equal(t, []string{"c", "a", "b"}, ids(first))
	assert.Equal(t, first, second)
}

func TestFilter_MatchesFacetValuesVerbatim(t *testing.T) {
	products := []models.Product{
		{ID: "P1", ProductAttributeValues: []models.ProductAttributeValue{attr("Size", "M ")}},
		{ID: "P2", ProductAttributeValues: []models.ProductAttributeValue{attr("Size", "M")}},
	}

	assert.Equal(t, []string{"P1"}, ids(Filter(products, models.FilterSelection{"Size": {"m "}})))
	assert.Equal(t, []string{"P2"}, ids(Filter(products, models.FilterSelection{"Size": {"M"}})))
}
