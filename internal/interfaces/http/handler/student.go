package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	academyapp "github.com/u2204125/fee-management-system-sub000/internal/application/academy"
)

// StudentHandler handles student API endpoints
type StudentHandler struct {
	BaseHandler
	studentService *academyapp.StudentService
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(studentService *academyapp.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

// EnrollmentRequest represents one course enrollment in student requests
type EnrollmentRequest struct {
	CourseID        string  `json:"course_id" binding:"required,uuid"`
	StartingMonthID string  `json:"starting_month_id" binding:"required,uuid"`
	EndingMonthID   *string `json:"ending_month_id" binding:"omitempty,uuid"`
}

// CreateStudentRequest represents a request to create a student
type CreateStudentRequest struct {
	Name          string              `json:"name" binding:"required,min=1,max=200"`
	Phone         string              `json:"phone" binding:"max=30"`
	GuardianName  string              `json:"guardian_name" binding:"max=200"`
	GuardianPhone string              `json:"guardian_phone" binding:"max=30"`
	InstitutionID string              `json:"institution_id" binding:"required,uuid"`
	BatchID       string              `json:"batch_id" binding:"required,uuid"`
	Enrollments   []EnrollmentRequest `json:"enrollments"`
}

// UpdateStudentRequest represents a request to update a student's
// basic information
type UpdateStudentRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	Phone         string `json:"phone" binding:"max=30"`
	GuardianName  string `json:"guardian_name" binding:"max=200"`
	GuardianPhone string `json:"guardian_phone" binding:"max=30"`
	InstitutionID string `json:"institution_id" binding:"required,uuid"`
	BatchID       string `json:"batch_id" binding:"required,uuid"`
}

func toEnrollmentInput(req EnrollmentRequest) (academyapp.EnrollmentInput, error) {
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return academyapp.EnrollmentInput{}, err
	}
	startingMonthID, err := uuid.Parse(req.StartingMonthID)
	if err != nil {
		return academyapp.EnrollmentInput{}, err
	}

	input := academyapp.EnrollmentInput{
		CourseID:        courseID,
		StartingMonthID: startingMonthID,
	}
	if req.EndingMonthID != nil && *req.EndingMonthID != "" {
		endingMonthID, err := uuid.Parse(*req.EndingMonthID)
		if err != nil {
			return academyapp.EnrollmentInput{}, err
		}
		input.EndingMonthID = &endingMonthID
	}
	return input, nil
}

// Create creates a new student, optionally with initial enrollments.
func (h *StudentHandler) Create(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	institutionID, err := uuid.Parse(req.InstitutionID)
	if err != nil {
		h.BadRequest(c, "Invalid institution ID format")
		return
	}
	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	enrollments := make([]academyapp.EnrollmentInput, 0, len(req.Enrollments))
	for _, e := range req.Enrollments {
		input, err := toEnrollmentInput(e)
		if err != nil {
			h.BadRequest(c, "Invalid enrollment ID format")
			return
		}
		enrollments = append(enrollments, input)
	}

	student, err := h.studentService.Create(c.Request.Context(), academyapp.CreateStudentRequest{
		Name:          req.Name,
		Phone:         req.Phone,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		InstitutionID: institutionID,
		BatchID:       batchID,
		Enrollments:   enrollments,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, student)
}

// GetByID returns a single student with enrollments.
func (h *StudentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, student)
}

// List returns a paginated list of students.
func (h *StudentHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	students, total, err := h.studentService.List(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, students, total, q.Page, q.PageSize)
}

// ListByBatch returns all students in a batch.
func (h *StudentHandler) ListByBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	students, err := h.studentService.ListByBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, students)
}

// Update updates a student's basic information. Enrollments are managed
// through the enrollment endpoints.
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	institutionID, err := uuid.Parse(req.InstitutionID)
	if err != nil {
		h.BadRequest(c, "Invalid institution ID format")
		return
	}
	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, academyapp.UpdateStudentRequest{
		Name:          req.Name,
		Phone:         req.Phone,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		InstitutionID: institutionID,
		BatchID:       batchID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, student)
}

// Enroll adds a course enrollment to a student.
func (h *StudentHandler) Enroll(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	var req EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input, err := toEnrollmentInput(req)
	if err != nil {
		h.BadRequest(c, "Invalid enrollment ID format")
		return
	}

	student, err := h.studentService.Enroll(c.Request.Context(), id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, student)
}

// UpdateEnrollment changes the month range of an existing enrollment.
func (h *StudentHandler) UpdateEnrollment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	var req EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input, err := toEnrollmentInput(req)
	if err != nil {
		h.BadRequest(c, "Invalid enrollment ID format")
		return
	}

	student, err := h.studentService.UpdateEnrollment(c.Request.Context(), id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, student)
}

// Unenroll removes a course enrollment from a student.
func (h *StudentHandler) Unenroll(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		h.BadRequest(c, "Invalid course ID format")
		return
	}

	student, err := h.studentService.Unenroll(c.Request.Context(), id, courseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, student)
}

// Delete removes a student. Students with recorded payments cannot be
// deleted.
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
