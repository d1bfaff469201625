package academy

import (
	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// Course represents a coaching course offered under a batch
type Course struct {
	shared.BaseAggregateRoot
	BatchID    uuid.UUID
	Name       string
	MonthlyFee valueobject.Money
}

// NewCourse creates a new course under a batch
func NewCourse(batchID uuid.UUID, name string, monthlyFee valueobject.Money) (*Course, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Course requires a batch")
	}
	if err := validateName(name, "Course"); err != nil {
		return nil, err
	}
	if monthlyFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Monthly fee cannot be negative")
	}

	course := &Course{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchID:           batchID,
		Name:              name,
		MonthlyFee:        monthlyFee.Round(),
	}

	return course, nil
}

// Update updates the course's name and default monthly fee
func (c *Course) Update(name string, monthlyFee valueobject.Money) error {
	if err := validateName(name, "Course"); err != nil {
		return err
	}
	if monthlyFee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Monthly fee cannot be negative")
	}

	c.Name = name
	c.MonthlyFee = monthlyFee.Round()
	c.Touch()
	c.IncrementVersion()

	return nil
}
