package academy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

// InstitutionService handles institution CRUD
type InstitutionService struct {
	institutionRepo academy.InstitutionRepository
}

// NewInstitutionService creates a new InstitutionService
func NewInstitutionService(institutionRepo academy.InstitutionRepository) *InstitutionService {
	return &InstitutionService{institutionRepo: institutionRepo}
}

// Create creates a new institution
func (s *InstitutionService) Create(ctx context.Context, req CreateInstitutionRequest) (*InstitutionResponse, error) {
	existing, err := s.institutionRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Institution with this name already exists")
	}

	address, err := toAddress(req.Address)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	institution, err := academy.NewInstitution(req.Name, address, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.institutionRepo.Save(ctx, institution); err != nil {
		return nil, err
	}

	resp := ToInstitutionResponse(institution)
	return &resp, nil
}

// GetByID retrieves an institution
func (s *InstitutionService) GetByID(ctx context.Context, id uuid.UUID) (*InstitutionResponse, error) {
	institution, err := s.institutionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInstitutionResponse(institution)
	return &resp, nil
}

// List retrieves institutions with pagination
func (s *InstitutionService) List(ctx context.Context, filter ListFilter) ([]InstitutionResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	institutions, err := s.institutionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.institutionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InstitutionResponse, len(institutions))
	for i := range institutions {
		responses[i] = ToInstitutionResponse(&institutions[i])
	}
	return responses, total, nil
}

// Update updates an institution
func (s *InstitutionService) Update(ctx context.Context, id uuid.UUID, req UpdateInstitutionRequest) (*InstitutionResponse, error) {
	institution, err := s.institutionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	address, err := toAddress(req.Address)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	if err := institution.Update(req.Name, address, req.Phone); err != nil {
		return nil, err
	}

	if err := s.institutionRepo.Save(ctx, institution); err != nil {
		return nil, err
	}

	resp := ToInstitutionResponse(institution)
	return &resp, nil
}

// Delete deletes an institution
func (s *InstitutionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.institutionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.institutionRepo.Delete(ctx, id)
}
