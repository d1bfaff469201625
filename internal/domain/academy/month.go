package academy

import (
	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// Month represents one billable unit of a course. MonthNumber is the
// ordinal position used for schedule ordering; it does not have to be a
// calendar month.
type Month struct {
	shared.BaseAggregateRoot
	CourseID    uuid.UUID
	Name        string
	MonthNumber int
	Fee         valueobject.Money
}

// NewMonth creates a new billable month for a course
func NewMonth(courseID uuid.UUID, name string, monthNumber int, fee valueobject.Money) (*Month, error) {
	if courseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COURSE", "Month requires a course")
	}
	if err := validateName(name, "Month"); err != nil {
		return nil, err
	}
	if monthNumber < 0 {
		return nil, shared.NewDomainError("INVALID_MONTH_NUMBER", "Month number cannot be negative")
	}
	if fee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Month fee cannot be negative")
	}

	month := &Month{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CourseID:          courseID,
		Name:              name,
		MonthNumber:       monthNumber,
		Fee:               fee.Round(),
	}

	return month, nil
}

// Update updates the month's name, ordinal and fee
func (m *Month) Update(name string, monthNumber int, fee valueobject.Money) error {
	if err := validateName(name, "Month"); err != nil {
		return err
	}
	if monthNumber < 0 {
		return shared.NewDomainError("INVALID_MONTH_NUMBER", "Month number cannot be negative")
	}
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Month fee cannot be negative")
	}

	m.Name = name
	m.MonthNumber = monthNumber
	m.Fee = fee.Round()
	m.Touch()
	m.IncrementVersion()

	return nil
}
