package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"catalog-service/internal/models"
)

const (
	defaultTopFilters = 10
	maxTopFilters     = 50
)

// AnalyticsRepository records which filter values shoppers select per category
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// usageRows expands a selection into one row per selected value. Blank labels
// and values are skipped; rows come out in label order for stable inserts.
func usageRows(tenantID, categoryID string, selection models.FilterSelection) []models.FilterUsage {
	labels := make([]string, 0, len(selection))
	for label := range selection {
		if strings.TrimSpace(label) != "" {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	var rows []models.FilterUsage
	for _, label := range labels {
		for _, value := range selection[label] {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			rows = append(rows, models.FilterUsage{
				TenantID:   tenantID,
				CategoryID: categoryID,
				Label:      strings.TrimSpace(label),
				Value:      value,
			})
		}
	}
	return rows
}

// TrackSelection stores the selected filter values of one listing request
func (r *AnalyticsRepository) TrackSelection(ctx context.Context, tenantID, categoryID string, selection models.FilterSelection) error {
	rows := usageRows(tenantID, categoryID, selection)
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to track filter selection: %w", err)
	}
	return nil
}

// TopFilters returns the most selected filter values of a category
func (r *AnalyticsRepository) TopFilters(ctx context.Context, tenantID, categoryID string, limit int) ([]models.PopularFilter, error) {
	if limit <= 0 {
		limit = defaultTopFilters
	}
	if limit > maxTopFilters {
		limit = maxTopFilters
	}

	results := []models.PopularFilter{}
	err := r.db.WithContext(ctx).
		Model(&models.FilterUsage{}).
		Select("label, value, COUNT(*) AS count").
		Where("tenant_id = ? AND category_id = ?", tenantID, categoryID).
		Group("label, value").
		Order("count DESC, label, value").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load popular filters: %w", err)
	}
	return results, nil
}
