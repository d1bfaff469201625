package academy

import (
	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

// Enrollment links a student to a course with the window of months the
// student is billed for. EndingMonthID is nil while the enrollment is
// open-ended.
type Enrollment struct {
	CourseID        uuid.UUID  `json:"courseId"`
	StartingMonthID uuid.UUID  `json:"startingMonthId"`
	EndingMonthID   *uuid.UUID `json:"endingMonthId,omitempty"`
}

// Student represents an enrolled student
type Student struct {
	shared.BaseAggregateRoot
	Name          string
	Phone         string
	GuardianName  string
	GuardianPhone string
	InstitutionID uuid.UUID
	BatchID       uuid.UUID
	Enrollments   []Enrollment
}

// NewStudent creates a new student
func NewStudent(name, phone, guardianName, guardianPhone string, institutionID, batchID uuid.UUID) (*Student, error) {
	if err := validateName(name, "Student"); err != nil {
		return nil, err
	}
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Student requires a batch")
	}

	student := &Student{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		GuardianName:      guardianName,
		GuardianPhone:     guardianPhone,
		InstitutionID:     institutionID,
		BatchID:           batchID,
		Enrollments:       make([]Enrollment, 0),
	}

	student.AddDomainEvent(NewStudentCreatedEvent(student))

	return student, nil
}

// Update updates the student's basic information
func (s *Student) Update(name, phone, guardianName, guardianPhone string, institutionID, batchID uuid.UUID) error {
	if err := validateName(name, "Student"); err != nil {
		return err
	}
	if batchID == uuid.Nil {
		return shared.NewDomainError("INVALID_BATCH", "Student requires a batch")
	}

	s.Name = name
	s.Phone = phone
	s.GuardianName = guardianName
	s.GuardianPhone = guardianPhone
	s.InstitutionID = institutionID
	s.BatchID = batchID
	s.Touch()
	s.IncrementVersion()

	return nil
}

// Enroll adds a course enrollment. A student can hold at most one
// enrollment per course.
func (s *Student) Enroll(courseID, startingMonthID uuid.UUID, endingMonthID *uuid.UUID) error {
	if courseID == uuid.Nil {
		return shared.NewDomainError("INVALID_COURSE", "Enrollment requires a course")
	}
	if startingMonthID == uuid.Nil {
		return shared.NewDomainError("INVALID_ENROLLMENT", "Enrollment requires a starting month")
	}
	if s.EnrollmentFor(courseID) != nil {
		return shared.NewDomainError("ALREADY_ENROLLED", "Student is already enrolled in this course")
	}

	s.Enrollments = append(s.Enrollments, Enrollment{
		CourseID:        courseID,
		StartingMonthID: startingMonthID,
		EndingMonthID:   endingMonthID,
	})
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewStudentEnrolledEvent(s, courseID))

	return nil
}

// UpdateEnrollment changes the month window of an existing enrollment
func (s *Student) UpdateEnrollment(courseID, startingMonthID uuid.UUID, endingMonthID *uuid.UUID) error {
	if startingMonthID == uuid.Nil {
		return shared.NewDomainError("INVALID_ENROLLMENT", "Enrollment requires a starting month")
	}

	for i := range s.Enrollments {
		if s.Enrollments[i].CourseID == courseID {
			s.Enrollments[i].StartingMonthID = startingMonthID
			s.Enrollments[i].EndingMonthID = endingMonthID
			s.Touch()
			s.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("NOT_ENROLLED", "Student is not enrolled in this course")
}

// Unenroll removes the enrollment for a course
func (s *Student) Unenroll(courseID uuid.UUID) error {
	for i := range s.Enrollments {
		if s.Enrollments[i].CourseID == courseID {
			s.Enrollments = append(s.Enrollments[:i], s.Enrollments[i+1:]...)
			s.Touch()
			s.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("NOT_ENROLLED", "Student is not enrolled in this course")
}

// EnrollmentFor returns the enrollment for the given course, or nil
func (s *Student) EnrollmentFor(courseID uuid.UUID) *Enrollment {
	for i := range s.Enrollments {
		if s.Enrollments[i].CourseID == courseID {
			return &s.Enrollments[i]
		}
	}
	return nil
}
