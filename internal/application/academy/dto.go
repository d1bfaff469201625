package academy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// AddressInput carries an optional address in requests
type AddressInput struct {
	Line1      string `json:"line1"`
	Area       string `json:"area"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// CreateInstitutionRequest creates an institution
type CreateInstitutionRequest struct {
	Name    string        `json:"name"`
	Address *AddressInput `json:"address,omitempty"`
	Phone   string        `json:"phone"`
}

// UpdateInstitutionRequest updates an institution
type UpdateInstitutionRequest struct {
	Name    string        `json:"name"`
	Address *AddressInput `json:"address,omitempty"`
	Phone   string        `json:"phone"`
}

// InstitutionResponse represents an institution in API responses
type InstitutionResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateBatchRequest creates a batch
type CreateBatchRequest struct {
	Name string `json:"name"`
}

// BatchResponse represents a batch in API responses
type BatchResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCourseRequest creates a course under a batch
type CreateCourseRequest struct {
	BatchID    uuid.UUID       `json:"batch_id"`
	Name       string          `json:"name"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
}

// UpdateCourseRequest updates a course
type UpdateCourseRequest struct {
	Name       string          `json:"name"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID         uuid.UUID `json:"id"`
	BatchID    uuid.UUID `json:"batch_id"`
	Name       string    `json:"name"`
	MonthlyFee string    `json:"monthly_fee"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateMonthRequest creates a billable month under a course. Fee
// falls back to the course's monthly fee when omitted.
type CreateMonthRequest struct {
	CourseID    uuid.UUID        `json:"course_id"`
	Name        string           `json:"name"`
	MonthNumber int              `json:"month_number"`
	Fee         *decimal.Decimal `json:"fee,omitempty"`
}

// UpdateMonthRequest updates a month
type UpdateMonthRequest struct {
	Name        string          `json:"name"`
	MonthNumber int             `json:"month_number"`
	Fee         decimal.Decimal `json:"fee"`
}

// MonthResponse represents a month in API responses
type MonthResponse struct {
	ID          uuid.UUID `json:"id"`
	CourseID    uuid.UUID `json:"course_id"`
	Name        string    `json:"name"`
	MonthNumber int       `json:"month_number"`
	Fee         string    `json:"fee"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EnrollmentInput is one course enrollment in student requests
type EnrollmentInput struct {
	CourseID        uuid.UUID  `json:"course_id"`
	StartingMonthID uuid.UUID  `json:"starting_month_id"`
	EndingMonthID   *uuid.UUID `json:"ending_month_id,omitempty"`
}

// CreateStudentRequest creates a student
type CreateStudentRequest struct {
	Name          string            `json:"name"`
	Phone         string            `json:"phone"`
	GuardianName  string            `json:"guardian_name"`
	GuardianPhone string            `json:"guardian_phone"`
	InstitutionID uuid.UUID         `json:"institution_id"`
	BatchID       uuid.UUID         `json:"batch_id"`
	Enrollments   []EnrollmentInput `json:"enrollments,omitempty"`
}

// UpdateStudentRequest updates a student's basic information
type UpdateStudentRequest struct {
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	GuardianName  string    `json:"guardian_name"`
	GuardianPhone string    `json:"guardian_phone"`
	InstitutionID uuid.UUID `json:"institution_id"`
	BatchID       uuid.UUID `json:"batch_id"`
}

// EnrollmentResponse is one enrollment in student responses
type EnrollmentResponse struct {
	CourseID        uuid.UUID  `json:"course_id"`
	StartingMonthID uuid.UUID  `json:"starting_month_id"`
	EndingMonthID   *uuid.UUID `json:"ending_month_id,omitempty"`
}

// StudentResponse represents a student in API responses
type StudentResponse struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Phone         string               `json:"phone,omitempty"`
	GuardianName  string               `json:"guardian_name,omitempty"`
	GuardianPhone string               `json:"guardian_phone,omitempty"`
	InstitutionID uuid.UUID            `json:"institution_id"`
	BatchID       uuid.UUID            `json:"batch_id"`
	Enrollments   []EnrollmentResponse `json:"enrollments"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ListFilter narrows entity listings
type ListFilter struct {
	Page     int
	PageSize int
	Search   string
}

func toAddress(in *AddressInput) (valueobject.Address, error) {
	if in == nil || (in.Line1 == "" && in.Area == "" && in.City == "") {
		return valueobject.EmptyAddress(), nil
	}
	return valueobject.NewAddress(in.Line1, in.Area, in.City, in.PostalCode)
}

// ToInstitutionResponse converts an institution to its response form
func ToInstitutionResponse(i *academy.Institution) InstitutionResponse {
	return InstitutionResponse{
		ID:        i.ID,
		Name:      i.Name,
		Address:   i.Address.String(),
		Phone:     i.Phone,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// ToBatchResponse converts a batch to its response form
func ToBatchResponse(b *academy.Batch) BatchResponse {
	return BatchResponse{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToCourseResponse converts a course to its response form
func ToCourseResponse(c *academy.Course) CourseResponse {
	return CourseResponse{
		ID:         c.ID,
		BatchID:    c.BatchID,
		Name:       c.Name,
		MonthlyFee: c.MonthlyFee.StringFixed(2),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToMonthResponse converts a month to its response form
func ToMonthResponse(m *academy.Month) MonthResponse {
	return MonthResponse{
		ID:          m.ID,
		CourseID:    m.CourseID,
		Name:        m.Name,
		MonthNumber: m.MonthNumber,
		Fee:         m.Fee.StringFixed(2),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToStudentResponse converts a student to its response form
func ToStudentResponse(s *academy.Student) StudentResponse {
	enrollments := make([]EnrollmentResponse, len(s.Enrollments))
	for i, e := range s.Enrollments {
		enrollments[i] = EnrollmentResponse{
			CourseID:        e.CourseID,
			StartingMonthID: e.StartingMonthID,
			EndingMonthID:   e.EndingMonthID,
		}
	}

	return StudentResponse{
		ID:            s.ID,
		Name:          s.Name,
		Phone:         s.Phone,
		GuardianName:  s.GuardianName,
		GuardianPhone: s.GuardianPhone,
		InstitutionID: s.InstitutionID,
		BatchID:       s.BatchID,
		Enrollments:   enrollments,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toDomainFilter(filter ListFilter) shared.Filter {
	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}
