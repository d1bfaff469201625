package academy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

// BatchService handles batch CRUD
type BatchService struct {
	batchRepo   academy.BatchRepository
	courseRepo  academy.CourseRepository
	studentRepo academy.StudentRepository
}

// NewBatchService creates a new BatchService
func NewBatchService(
	batchRepo academy.BatchRepository,
	courseRepo academy.CourseRepository,
	studentRepo academy.StudentRepository,
) *BatchService {
	return &BatchService{
		batchRepo:   batchRepo,
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
	}
}

// Create creates a new batch
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*BatchResponse, error) {
	existing, err := s.batchRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Batch with this name already exists")
	}

	batch, err := academy.NewBatch(req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// GetByID retrieves a batch
func (s *BatchService) GetByID(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// List retrieves batches with pagination
func (s *BatchService) List(ctx context.Context, filter ListFilter) ([]BatchResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	batches, err := s.batchRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.batchRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = ToBatchResponse(&batches[i])
	}
	return responses, total, nil
}

// Rename renames a batch
func (s *BatchService) Rename(ctx context.Context, id uuid.UUID, name string) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := batch.Rename(name); err != nil {
		return nil, err
	}

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// Delete deletes a batch. Batches that still hold courses or students
// cannot be deleted.
func (s *BatchService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.batchRepo.FindByID(ctx, id); err != nil {
		return err
	}

	courses, err := s.courseRepo.FindByBatch(ctx, id)
	if err != nil {
		return err
	}
	if len(courses) > 0 {
		return shared.NewDomainError("HAS_COURSES", "Cannot delete a batch that still has courses")
	}

	students, err := s.studentRepo.FindByBatch(ctx, id)
	if err != nil {
		return err
	}
	if len(students) > 0 {
		return shared.NewDomainError("HAS_STUDENTS", "Cannot delete a batch that still has students")
	}

	return s.batchRepo.Delete(ctx, id)
}
