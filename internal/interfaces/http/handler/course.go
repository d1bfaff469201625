package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	academyapp "github.com/u2204125/fee-management-system-sub000/internal/application/academy"
)

// CourseHandler handles course API endpoints
type CourseHandler struct {
	BaseHandler
	courseService *academyapp.CourseService
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService *academyapp.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	BatchID    string          `json:"batch_id" binding:"required,uuid"`
	Name       string          `json:"name" binding:"required,min=1,max=100"`
	MonthlyFee decimal.Decimal `json:"monthly_fee" binding:"required"`
}

// UpdateCourseRequest represents a request to update a course
type UpdateCourseRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=100"`
	MonthlyFee decimal.Decimal `json:"monthly_fee" binding:"required"`
}

// Create creates a new course under a batch.
func (h *CourseHandler) Create(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), academyapp.CreateCourseRequest{
		BatchID:    batchID,
		Name:       req.Name,
		MonthlyFee: req.MonthlyFee,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, course)
}

// GetByID returns a single course.
func (h *CourseHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid course ID format")
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, course)
}

// List returns a paginated list of courses.
func (h *CourseHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	courses, total, err := h.courseService.List(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, courses, total, q.Page, q.PageSize)
}

// ListByBatch returns all courses in a batch.
func (h *CourseHandler) ListByBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	courses, err := h.courseService.ListByBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, courses)
}

// Update updates a course's name and monthly fee. Fee changes only
// affect months created afterwards.
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid course ID format")
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, academyapp.UpdateCourseRequest{
		Name:       req.Name,
		MonthlyFee: req.MonthlyFee,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, course)
}

// Delete removes a course. Courses with months cannot be deleted.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid course ID format")
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
