package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStudentRepository implements StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by its ID
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Student, error) {
	var model models.StudentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBatch finds all students of a batch
func (r *GormStudentRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]academy.Student, error) {
	var studentModels []models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("name ASC").
		Find(&studentModels).Error; err != nil {
		return nil, err
	}

	students := make([]academy.Student, len(studentModels))
	for i, model := range studentModels {
		students[i] = *model.ToDomain()
	}
	return students, nil
}

// FindEnrolledInCourse finds all students with an enrollment in the course.
// Uses JSONB containment against the enrollments column.
func (r *GormStudentRepository) FindEnrolledInCourse(ctx context.Context, courseID uuid.UUID) ([]academy.Student, error) {
	match, err := json.Marshal([]map[string]string{{"courseId": courseID.String()}})
	if err != nil {
		return nil, err
	}

	var studentModels []models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("enrollments @> ?", string(match)).
		Order("name ASC").
		Find(&studentModels).Error; err != nil {
		return nil, err
	}

	students := make([]academy.Student, len(studentModels))
	for i, model := range studentModels {
		students[i] = *model.ToDomain()
	}
	return students, nil
}

// FindAll finds all students matching the filter
func (r *GormStudentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academy.Student, error) {
	var studentModels []models.StudentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.StudentModel{}), filter)

	if err := query.Find(&studentModels).Error; err != nil {
		return nil, err
	}

	students := make([]academy.Student, len(studentModels))
	for i, model := range studentModels {
		students[i] = *model.ToDomain()
	}
	return students, nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, student *academy.Student) error {
	model := models.StudentModelFromDomain(student)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a student
func (r *GormStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StudentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts students matching the filter
func (r *GormStudentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.StudentModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search, filters, ordering and pagination to the query
func (r *GormStudentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, StudentSortFields, "name")
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
func (r *GormStudentRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR guardian_name ILIKE ? OR guardian_phone ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "batch_id":
			query = query.Where("batch_id = ?", value)
		case "institution_id":
			query = query.Where("institution_id = ?", value)
		}
	}

	return query
}

// Ensure GormStudentRepository implements StudentRepository
var _ academy.StudentRepository = (*GormStudentRepository)(nil)
