package academy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// MonthService handles course month CRUD
type MonthService struct {
	monthRepo  academy.MonthRepository
	courseRepo academy.CourseRepository
}

// NewMonthService creates a new MonthService
func NewMonthService(monthRepo academy.MonthRepository, courseRepo academy.CourseRepository) *MonthService {
	return &MonthService{
		monthRepo:  monthRepo,
		courseRepo: courseRepo,
	}
}

// Create creates a billable month under a course. The fee defaults to
// the course's monthly fee when the request omits it.
func (s *MonthService) Create(ctx context.Context, req CreateMonthRequest) (*MonthResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_COURSE", "Course not found")
	}

	existing, err := s.monthRepo.FindByCourseAndNumber(ctx, req.CourseID, req.MonthNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A month with this number already exists for the course")
	}

	fee := course.MonthlyFee
	if req.Fee != nil {
		fee = valueobject.NewMoneyBDT(*req.Fee)
	}

	month, err := academy.NewMonth(req.CourseID, req.Name, req.MonthNumber, fee)
	if err != nil {
		return nil, err
	}

	if err := s.monthRepo.Save(ctx, month); err != nil {
		return nil, err
	}

	resp := ToMonthResponse(month)
	return &resp, nil
}

// GetByID retrieves a month
func (s *MonthService) GetByID(ctx context.Context, id uuid.UUID) (*MonthResponse, error) {
	month, err := s.monthRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMonthResponse(month)
	return &resp, nil
}

// ListByCourse retrieves all months of a course in ordinal order
func (s *MonthService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]MonthResponse, error) {
	months, err := s.monthRepo.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	responses := make([]MonthResponse, len(months))
	for i := range months {
		responses[i] = ToMonthResponse(&months[i])
	}
	return responses, nil
}

// Update updates a month's name, ordinal and fee
func (s *MonthService) Update(ctx context.Context, id uuid.UUID, req UpdateMonthRequest) (*MonthResponse, error) {
	month, err := s.monthRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.MonthNumber != month.MonthNumber {
		existing, err := s.monthRepo.FindByCourseAndNumber(ctx, month.CourseID, req.MonthNumber)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A month with this number already exists for the course")
		}
	}

	if err := month.Update(req.Name, req.MonthNumber, valueobject.NewMoneyBDT(req.Fee)); err != nil {
		return nil, err
	}

	if err := s.monthRepo.Save(ctx, month); err != nil {
		return nil, err
	}

	resp := ToMonthResponse(month)
	return &resp, nil
}

// Delete deletes a month
func (s *MonthService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.monthRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.monthRepo.Delete(ctx, id)
}
