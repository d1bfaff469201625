package academy

import (
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// Institution represents a school or college students come from
type Institution struct {
	shared.BaseAggregateRoot
	Name    string
	Address valueobject.Address
	Phone   string
}

// NewInstitution creates a new institution
func NewInstitution(name string, address valueobject.Address, phone string) (*Institution, error) {
	if err := validateName(name, "Institution"); err != nil {
		return nil, err
	}

	inst := &Institution{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           address,
		Phone:             phone,
	}

	inst.AddDomainEvent(NewInstitutionCreatedEvent(inst))

	return inst, nil
}

// Update updates the institution's basic information
func (i *Institution) Update(name string, address valueobject.Address, phone string) error {
	if err := validateName(name, "Institution"); err != nil {
		return err
	}

	i.Name = name
	i.Address = address
	i.Phone = phone
	i.Touch()
	i.IncrementVersion()

	return nil
}

// validateName validates an entity display name
func validateName(name, kind string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", kind+" name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", kind+" name cannot exceed 200 characters")
	}
	return nil
}
