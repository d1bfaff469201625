package academy

import (
	"context"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// CourseService handles course CRUD
type CourseService struct {
	courseRepo  academy.CourseRepository
	batchRepo   academy.BatchRepository
	monthRepo   academy.MonthRepository
	studentRepo academy.StudentRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo academy.CourseRepository,
	batchRepo academy.BatchRepository,
	monthRepo academy.MonthRepository,
	studentRepo academy.StudentRepository,
) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		batchRepo:   batchRepo,
		monthRepo:   monthRepo,
		studentRepo: studentRepo,
	}
}

// Create creates a new course under a batch
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*CourseResponse, error) {
	if _, err := s.batchRepo.FindByID(ctx, req.BatchID); err != nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch not found")
	}

	course, err := academy.NewCourse(req.BatchID, req.Name, valueobject.NewMoneyBDT(req.MonthlyFee))
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	resp := ToCourseResponse(course)
	return &resp, nil
}

// GetByID retrieves a course
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCourseResponse(course)
	return &resp, nil
}

// ListByBatch retrieves the courses of a batch
func (s *CourseService) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]CourseResponse, error) {
	courses, err := s.courseRepo.FindByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	responses := make([]CourseResponse, len(courses))
	for i := range courses {
		responses[i] = ToCourseResponse(&courses[i])
	}
	return responses, nil
}

// List retrieves courses with pagination
func (s *CourseService) List(ctx context.Context, filter ListFilter) ([]CourseResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	courses, err := s.courseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.courseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CourseResponse, len(courses))
	for i := range courses {
		responses[i] = ToCourseResponse(&courses[i])
	}
	return responses, total, nil
}

// Update updates a course's name and default monthly fee
func (s *CourseService) Update(ctx context.Context, id uuid.UUID, req UpdateCourseRequest) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := course.Update(req.Name, valueobject.NewMoneyBDT(req.MonthlyFee)); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	resp := ToCourseResponse(course)
	return &resp, nil
}

// Delete deletes a course. Courses with enrolled students or defined
// months cannot be deleted; the payment history references them.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.courseRepo.FindByID(ctx, id); err != nil {
		return err
	}

	enrolled, err := s.studentRepo.FindEnrolledInCourse(ctx, id)
	if err != nil {
		return err
	}
	if len(enrolled) > 0 {
		return shared.NewDomainError("HAS_STUDENTS", "Cannot delete a course with enrolled students")
	}

	months, err := s.monthRepo.FindByCourse(ctx, id)
	if err != nil {
		return err
	}
	if len(months) > 0 {
		return shared.NewDomainError("HAS_MONTHS", "Cannot delete a course that still has months")
	}

	return s.courseRepo.Delete(ctx, id)
}
