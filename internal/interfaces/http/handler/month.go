package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	academyapp "github.com/u2204125/fee-management-system-sub000/internal/application/academy"
)

// MonthHandler handles billable month API endpoints
type MonthHandler struct {
	BaseHandler
	monthService *academyapp.MonthService
}

// NewMonthHandler creates a new MonthHandler
func NewMonthHandler(monthService *academyapp.MonthService) *MonthHandler {
	return &MonthHandler{
		monthService: monthService,
	}
}

// CreateMonthRequest represents a request to create a billable month.
// Fee falls back to the course's monthly fee when omitted.
type CreateMonthRequest struct {
	CourseID    string           `json:"course_id" binding:"required,uuid"`
	Name        string           `json:"name" binding:"required,min=1,max=50"`
	MonthNumber int              `json:"month_number" binding:"required,min=1"`
	Fee         *decimal.Decimal `json:"fee"`
}

// UpdateMonthRequest represents a request to update a month
type UpdateMonthRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=50"`
	MonthNumber int             `json:"month_number" binding:"required,min=1"`
	Fee         decimal.Decimal `json:"fee" binding:"required"`
}

// Create creates a new billable month under a course.
func (h *MonthHandler) Create(c *gin.Context) {
	var req CreateMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		h.BadRequest(c, "Invalid course ID format")
		return
	}

	month, err := h.monthService.Create(c.Request.Context(), academyapp.CreateMonthRequest{
		CourseID:    courseID,
		Name:        req.Name,
		MonthNumber: req.MonthNumber,
		Fee:         req.Fee,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, month)
}

// GetByID returns a single month.
func (h *MonthHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid month ID format")
		return
	}

	month, err := h.monthService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, month)
}

// ListByCourse returns all months of a course ordered by month number.
func (h *MonthHandler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid course ID format")
		return
	}

	months, err := h.monthService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, months)
}

// Update updates a month's name, number, and fee. The stored fee of a
// month is authoritative for dues regardless of later course fee changes.
func (h *MonthHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid month ID format")
		return
	}

	var req UpdateMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	month, err := h.monthService.Update(c.Request.Context(), id, academyapp.UpdateMonthRequest{
		Name:        req.Name,
		MonthNumber: req.MonthNumber,
		Fee:         req.Fee,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, month)
}

// Delete removes a month. Months referenced by payments cannot be
// deleted.
func (h *MonthHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid month ID format")
		return
	}

	if err := h.monthService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
