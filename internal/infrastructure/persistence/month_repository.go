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

// GormMonthRepository implements MonthRepository using GORM
type GormMonthRepository struct {
	db *gorm.DB
}

// NewGormMonthRepository creates a new GormMonthRepository
func NewGormMonthRepository(db *gorm.DB) *GormMonthRepository {
	return &GormMonthRepository{db: db}
}

// FindByID finds a month by its ID
func (r *GormMonthRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Month, error) {
	var model models.MonthModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCourse finds all months of a course ordered by month number
func (r *GormMonthRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]academy.Month, error) {
	var monthModels []models.MonthModel
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("month_number ASC").
		Find(&monthModels).Error; err != nil {
		return nil, err
	}

	months := make([]academy.Month, len(monthModels))
	for i, model := range monthModels {
		months[i] = *model.ToDomain()
	}
	return months, nil
}

// FindByIDs finds multiple months by their IDs
func (r *GormMonthRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]academy.Month, error) {
	if len(ids) == 0 {
		return []academy.Month{}, nil
	}

	var monthModels []models.MonthModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&monthModels).Error; err != nil {
		return nil, err
	}

	months := make([]academy.Month, len(monthModels))
	for i, model := range monthModels {
		months[i] = *model.ToDomain()
	}
	return months, nil
}

// FindByCourseAndNumber finds the month at a given ordinal position of a course
func (r *GormMonthRepository) FindByCourseAndNumber(ctx context.Context, courseID uuid.UUID, monthNumber int) (*academy.Month, error) {
	var model models.MonthModel
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND month_number = ?", courseID, monthNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all months matching the filter
func (r *GormMonthRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academy.Month, error) {
	var monthModels []models.MonthModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MonthModel{}), filter)

	if err := query.Find(&monthModels).Error; err != nil {
		return nil, err
	}

	months := make([]academy.Month, len(monthModels))
	for i, model := range monthModels {
		months[i] = *model.ToDomain()
	}
	return months, nil
}

// Save creates or updates a month
func (r *GormMonthRepository) Save(ctx context.Context, month *academy.Month) error {
	model := models.MonthModelFromDomain(month)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a month
func (r *GormMonthRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MonthModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts months matching the filter
func (r *GormMonthRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.MonthModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search, filters, ordering and pagination to the query
func (r *GormMonthRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, MonthSortFields, "month_number")
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

// applySearch applies search terms and extra filters to the query
func (r *GormMonthRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if courseID, ok := filter.Filters["course_id"]; ok {
		query = query.Where("course_id = ?", courseID)
	}
	return query
}

// Ensure GormMonthRepository implements MonthRepository
var _ academy.MonthRepository = (*GormMonthRepository)(nil)
