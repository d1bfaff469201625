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

// GormCourseRepository implements CourseRepository using GORM
type GormCourseRepository struct {
	db *gorm.DB
}

// NewGormCourseRepository creates a new GormCourseRepository
func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// FindByID finds a course by its ID
func (r *GormCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Course, error) {
	var model models.CourseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBatch finds all courses under a batch
func (r *GormCourseRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]academy.Course, error) {
	var courseModels []models.CourseModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("name ASC").
		Find(&courseModels).Error; err != nil {
		return nil, err
	}

	courses := make([]academy.Course, len(courseModels))
	for i, model := range courseModels {
		courses[i] = *model.ToDomain()
	}
	return courses, nil
}

// FindByIDs finds multiple courses by their IDs
func (r *GormCourseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]academy.Course, error) {
	if len(ids) == 0 {
		return []academy.Course{}, nil
	}

	var courseModels []models.CourseModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&courseModels).Error; err != nil {
		return nil, err
	}

	courses := make([]academy.Course, len(courseModels))
	for i, model := range courseModels {
		courses[i] = *model.ToDomain()
	}
	return courses, nil
}

// FindAll finds all courses matching the filter
func (r *GormCourseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academy.Course, error) {
	var courseModels []models.CourseModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CourseModel{}), filter)

	if err := query.Find(&courseModels).Error; err != nil {
		return nil, err
	}

	courses := make([]academy.Course, len(courseModels))
	for i, model := range courseModels {
		courses[i] = *model.ToDomain()
	}
	return courses, nil
}

// Save creates or updates a course
func (r *GormCourseRepository) Save(ctx context.Context, course *academy.Course) error {
	model := models.CourseModelFromDomain(course)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a course
func (r *GormCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CourseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts courses matching the filter
func (r *GormCourseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.CourseModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search, filters, ordering and pagination to the query
func (r *GormCourseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, CourseSortFields, "name")
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
func (r *GormCourseRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if batchID, ok := filter.Filters["batch_id"]; ok {
		query = query.Where("batch_id = ?", batchID)
	}
	return query
}

// Ensure GormCourseRepository implements CourseRepository
var _ academy.CourseRepository = (*GormCourseRepository)(nil)
