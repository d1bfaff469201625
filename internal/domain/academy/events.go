package academy

import (
	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

// Event types for the academy domain
const (
	EventInstitutionCreated = "academy.institution.created"
	EventStudentCreated     = "academy.student.created"
	EventStudentEnrolled    = "academy.student.enrolled"
)

// InstitutionCreatedEvent is raised when an institution is registered
type InstitutionCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewInstitutionCreatedEvent creates an InstitutionCreatedEvent
func NewInstitutionCreatedEvent(i *Institution) *InstitutionCreatedEvent {
	return &InstitutionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInstitutionCreated, "Institution", i.ID),
		Name:            i.Name,
	}
}

// StudentCreatedEvent is raised when a student is registered
type StudentCreatedEvent struct {
	shared.BaseDomainEvent
	Name    string    `json:"name"`
	BatchID uuid.UUID `json:"batchId"`
}

// NewStudentCreatedEvent creates a StudentCreatedEvent
func NewStudentCreatedEvent(s *Student) *StudentCreatedEvent {
	return &StudentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStudentCreated, "Student", s.ID),
		Name:            s.Name,
		BatchID:         s.BatchID,
	}
}

// StudentEnrolledEvent is raised when a student enrolls in a course
type StudentEnrolledEvent struct {
	shared.BaseDomainEvent
	CourseID uuid.UUID `json:"courseId"`
}

// NewStudentEnrolledEvent creates a StudentEnrolledEvent
func NewStudentEnrolledEvent(s *Student, courseID uuid.UUID) *StudentEnrolledEvent {
	return &StudentEnrolledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStudentEnrolled, "Student", s.ID),
		CourseID:        courseID,
	}
}
