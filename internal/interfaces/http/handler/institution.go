package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	academyapp "github.com/u2204125/fee-management-system-sub000/internal/application/academy"
)

// listQuery binds common pagination query parameters
type listQuery struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	Search   string `form:"search"`
}

func (q listQuery) toFilter() academyapp.ListFilter {
	return academyapp.ListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
	}
}

// InstitutionHandler handles institution API endpoints
type InstitutionHandler struct {
	BaseHandler
	institutionService *academyapp.InstitutionService
}

// NewInstitutionHandler creates a new InstitutionHandler
func NewInstitutionHandler(institutionService *academyapp.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{
		institutionService: institutionService,
	}
}

// AddressRequest represents an optional address in requests
type AddressRequest struct {
	Line1      string `json:"line1" binding:"max=200"`
	Area       string `json:"area" binding:"max=100"`
	City       string `json:"city" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
}

// CreateInstitutionRequest represents a request to create an institution
type CreateInstitutionRequest struct {
	Name    string          `json:"name" binding:"required,min=1,max=200"`
	Address *AddressRequest `json:"address"`
	Phone   string          `json:"phone" binding:"max=30"`
}

// UpdateInstitutionRequest represents a request to update an institution
type UpdateInstitutionRequest struct {
	Name    string          `json:"name" binding:"required,min=1,max=200"`
	Address *AddressRequest `json:"address"`
	Phone   string          `json:"phone" binding:"max=30"`
}

func toAddressInput(in *AddressRequest) *academyapp.AddressInput {
	if in == nil {
		return nil
	}
	return &academyapp.AddressInput{
		Line1:      in.Line1,
		Area:       in.Area,
		City:       in.City,
		PostalCode: in.PostalCode,
	}
}

// Create creates a new institution.
func (h *InstitutionHandler) Create(c *gin.Context) {
	var req CreateInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	institution, err := h.institutionService.Create(c.Request.Context(), academyapp.CreateInstitutionRequest{
		Name:    req.Name,
		Address: toAddressInput(req.Address),
		Phone:   req.Phone,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, institution)
}

// GetByID returns a single institution.
func (h *InstitutionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid institution ID format")
		return
	}

	institution, err := h.institutionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, institution)
}

// List returns a paginated list of institutions.
func (h *InstitutionHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	institutions, total, err := h.institutionService.List(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, institutions, total, q.Page, q.PageSize)
}

// Update updates an institution.
func (h *InstitutionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid institution ID format")
		return
	}

	var req UpdateInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	institution, err := h.institutionService.Update(c.Request.Context(), id, academyapp.UpdateInstitutionRequest{
		Name:    req.Name,
		Address: toAddressInput(req.Address),
		Phone:   req.Phone,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, institution)
}

// Delete removes an institution. Institutions with enrolled students
// cannot be deleted.
func (h *InstitutionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid institution ID format")
		return
	}

	if err := h.institutionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
