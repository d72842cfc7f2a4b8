package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
	"catalog-service/internal/services"
)

const exportSheet = "Products"

var exportColumns = []struct {
	Name  string
	Width float64
}{
	{"ID", 38},
	{"SKU", 20},
	{"Name", 40},
	{"Brand", 20},
	{"List Price", 14},
	{"Display Price", 14},
	{"Sale Price", 14},
	{"Discount %", 12},
	{"Created At", 22},
	{"Attributes", 60},
}

// ExportCategoryProducts downloads the filtered category listing as an xlsx workbook
// @Summary Export category products
// @Tags Storefront
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path string true "Category ID"
// @Param currency query string false "ISO currency code for prices"
// @Success 200 {file} file
// @Failure 500 {object} models.ErrorResponse
// @Router /storefront/categories/{id}/products/export [get]
func (h *StorefrontHandler) ExportCategoryProducts(c *gin.Context) {
	categoryID := c.Param("id")
	_, products := h.listings.ExportCategory(c.Request.Context(), services.ListingQuery{
		TenantID:   middleware.GetTenantID(c),
		CategoryID: categoryID,
		Selection:  parseSelection(c.Request.URL.Query()),
		Currency:   c.Query("currency"),
	})

	f, err := buildProductWorkbook(products)
	if err != nil {
		h.logger.WithError(err).WithField("category_id", categoryID).Error("Failed to build export workbook")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EXPORT_FAILED",
				Message: "Failed to export products",
			},
			RequestID: middleware.GetRequestID(c),
		})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=category_%s_products.xlsx", sanitizeFilename(categoryID)))

	if err := f.Write(c.Writer); err != nil {
		h.logger.WithError(err).Warn("Failed to stream export workbook")
	}
}

func buildProductWorkbook(products []models.Product) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, col.Name)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, colName, colName, col.Width)
	}

	for r, p := range products {
		row := []interface{}{
			p.ID,
			p.SKU,
			p.Name,
			p.BrandNameOrEmpty(),
			optional(p.ListPriceAmount),
			optional(p.DisplayPrice),
			optional(p.SalePrice),
			optional(p.DiscountPercent),
			p.CreatedAt,
			formatAttributes(p.ProductAttributeValues),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// optional renders a missing amount as an empty cell
func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func formatAttributes(values []models.ProductAttributeValue) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		label := strings.TrimSpace(v.Label())
		key := strings.TrimSpace(v.Key)
		if label == "" || key == "" {
			continue
		}
		parts = append(parts, label+": "+key)
	}
	return strings.Join(parts, "; ")
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
