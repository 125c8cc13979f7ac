// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/metalmind-app/metalmind/models"
	"gorm.io/gorm"
)

// MaterialRepositoryImpl implements MaterialRepository interface
type MaterialRepositoryImpl struct {
	*BaseRepository[models.Material, models.MaterialFilter]
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &MaterialRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Material, models.MaterialFilter](db),
	}
}

// ListAll retrieves every material row, oldest first
func (r *MaterialRepositoryImpl) ListAll(ctx context.Context) ([]*models.Material, error) {
	return r.ByFilter(ctx, models.MaterialFilter{}, "id ASC", 0, 0)
}

// ByType retrieves all materials in a category
func (r *MaterialRepositoryImpl) ByType(ctx context.Context, materialType string) ([]*models.Material, error) {
	filter := models.MaterialFilter{Type: &materialType}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// MinPriceByTypes returns the lowest recorded price across the given
// categories, or nil when none of them has a row.
func (r *MaterialRepositoryImpl) MinPriceByTypes(ctx context.Context, types []string) (*float64, error) {
	if len(types) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var result struct {
		MinPrice *float64
	}
	err := db.Model(&models.Material{}).
		Select("MIN(price) AS min_price").
		Where("type IN ?", types).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result.MinPrice, nil
}

// UpdatePrice writes a new price for a single material row.
// Each call is its own write; the market simulator relies on row-level
// atomicity only.
func (r *MaterialRepositoryImpl) UpdatePrice(ctx context.Context, id uint, price float64, updatedAt time.Time) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Model(&models.Material{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"price":      price,
			"updated_at": updatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("material not found with ID: " + strconv.Itoa(int(id)))
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *MaterialRepositoryImpl) applyFilter(query *gorm.DB, filter models.MaterialFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves materials based on filter criteria
func (r *MaterialRepositoryImpl) ByFilter(ctx context.Context, filter models.MaterialFilter, orderBy string, limit, offset int) ([]*models.Material, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Material{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var materials []*models.Material
	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Count returns the number of materials matching the filter
func (r *MaterialRepositoryImpl) Count(ctx context.Context, filter models.MaterialFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Material{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any material matching the filter exists
func (r *MaterialRepositoryImpl) Exists(ctx context.Context, filter models.MaterialFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
