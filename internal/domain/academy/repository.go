package academy

import (
	"context"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

// InstitutionRepository persists institutions
type InstitutionRepository interface {
	shared.Repository[Institution]
	FindByName(ctx context.Context, name string) (*Institution, error)
}

// BatchRepository persists batches
type BatchRepository interface {
	shared.Repository[Batch]
	FindByName(ctx context.Context, name string) (*Batch, error)
}

// CourseRepository persists courses
type CourseRepository interface {
	shared.Repository[Course]
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]Course, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Course, error)
}

// MonthRepository persists course months
type MonthRepository interface {
	shared.Repository[Month]
	FindByCourse(ctx context.Context, courseID uuid.UUID) ([]Month, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Month, error)
	FindByCourseAndNumber(ctx context.Context, courseID uuid.UUID, monthNumber int) (*Month, error)
}

// StudentRepository persists students
type StudentRepository interface {
	shared.Repository[Student]
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]Student, error)
	FindEnrolledInCourse(ctx context.Context, courseID uuid.UUID) ([]Student, error)
}
