package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInstitutionRepository implements InstitutionRepository using GORM
type GormInstitutionRepository struct {
	db *gorm.DB
}

// NewGormInstitutionRepository creates a new GormInstitutionRepository
func NewGormInstitutionRepository(db *gorm.DB) *GormInstitutionRepository {
	return &GormInstitutionRepository{db: db}
}

// FindByID finds an institution by its ID
func (r *GormInstitutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Institution, error) {
	var model models.InstitutionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds an institution by its exact name
func (r *GormInstitutionRepository) FindByName(ctx context.Context, name string) (*academy.Institution, error) {
	var model models.InstitutionModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all institutions matching the filter
func (r *GormInstitutionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academy.Institution, error) {
	var institutionModels []models.InstitutionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InstitutionModel{}), filter)

	if err := query.Find(&institutionModels).Error; err != nil {
		return nil, err
	}

	institutions := make([]academy.Institution, len(institutionModels))
	for i, model := range institutionModels {
		institutions[i] = *model.ToDomain()
	}
	return institutions, nil
}

// Save creates or updates an institution
func (r *GormInstitutionRepository) Save(ctx context.Context, institution *academy.Institution) error {
	model := models.InstitutionModelFromDomain(institution)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an institution
func (r *GormInstitutionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InstitutionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts institutions matching the filter
func (r *GormInstitutionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.InstitutionModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search, ordering and pagination to the query
func (r *GormInstitutionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, InstitutionSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if filter.OrderBy == "" {
		orderDir = "ASC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applySearch applies search terms to the query
func (r *GormInstitutionRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ?", searchPattern, searchPattern)
	}
	return query
}

// Ensure GormInstitutionRepository implements InstitutionRepository
var _ academy.InstitutionRepository = (*GormInstitutionRepository)(nil)
