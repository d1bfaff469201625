package academy

import (
	"context"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

// StudentService handles student CRUD and enrollment management
type StudentService struct {
	studentRepo     academy.StudentRepository
	institutionRepo academy.InstitutionRepository
	batchRepo       academy.BatchRepository
	courseRepo      academy.CourseRepository
	monthRepo       academy.MonthRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo academy.StudentRepository,
	institutionRepo academy.InstitutionRepository,
	batchRepo academy.BatchRepository,
	courseRepo academy.CourseRepository,
	monthRepo academy.MonthRepository,
) *StudentService {
	return &StudentService{
		studentRepo:     studentRepo,
		institutionRepo: institutionRepo,
		batchRepo:       batchRepo,
		courseRepo:      courseRepo,
		monthRepo:       monthRepo,
	}
}

// Create creates a new student, optionally with initial enrollments
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*StudentResponse, error) {
	if _, err := s.batchRepo.FindByID(ctx, req.BatchID); err != nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch not found")
	}
	if req.InstitutionID != uuid.Nil {
		if _, err := s.institutionRepo.FindByID(ctx, req.InstitutionID); err != nil {
			return nil, shared.NewDomainError("INVALID_INSTITUTION", "Institution not found")
		}
	}

	student, err := academy.NewStudent(req.Name, req.Phone, req.GuardianName, req.GuardianPhone, req.InstitutionID, req.BatchID)
	if err != nil {
		return nil, err
	}

	for _, e := range req.Enrollments {
		if err := s.validateEnrollment(ctx, e.CourseID, e.StartingMonthID, e.EndingMonthID); err != nil {
			return nil, err
		}
		if err := student.Enroll(e.CourseID, e.StartingMonthID, e.EndingMonthID); err != nil {
			return nil, err
		}
	}

	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}

	resp := ToStudentResponse(student)
	return &resp, nil
}

// GetByID retrieves a student
func (s *StudentService) GetByID(ctx context.Context, id uuid.UUID) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStudentResponse(student)
	return &resp, nil
}

// List retrieves students with pagination
func (s *StudentService) List(ctx context.Context, filter ListFilter) ([]StudentResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	students, err := s.studentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.studentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StudentResponse, len(students))
	for i := range students {
		responses[i] = ToStudentResponse(&students[i])
	}
	return responses, total, nil
}

// ListByBatch retrieves the students of a batch
func (s *StudentService) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]StudentResponse, error) {
	students, err := s.studentRepo.FindByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	responses := make([]StudentResponse, len(students))
	for i := range students {
		responses[i] = ToStudentResponse(&students[i])
	}
	return responses, nil
}

// Update updates a student's basic information
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, req UpdateStudentRequest) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BatchID != student.BatchID {
		if _, err := s.batchRepo.FindByID(ctx, req.BatchID); err != nil {
			return nil, shared.NewDomainError("INVALID_BATCH", "Batch not found")
		}
	}
	if req.InstitutionID != uuid.Nil && req.InstitutionID != student.InstitutionID {
		if _, err := s.institutionRepo.FindByID(ctx, req.InstitutionID); err != nil {
			return nil, shared.NewDomainError("INVALID_INSTITUTION", "Institution not found")
		}
	}

	if err := student.Update(req.Name, req.Phone, req.GuardianName, req.GuardianPhone, req.InstitutionID, req.BatchID); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}

	resp := ToStudentResponse(student)
	return &resp, nil
}

// Enroll adds a course enrollment to a student
func (s *StudentService) Enroll(ctx context.Context, id uuid.UUID, req EnrollmentInput) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateEnrollment(ctx, req.CourseID, req.StartingMonthID, req.EndingMonthID); err != nil {
		return nil, err
	}
	if err := student.Enroll(req.CourseID, req.StartingMonthID, req.EndingMonthID); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}

	resp := ToStudentResponse(student)
	return &resp, nil
}

// UpdateEnrollment changes the month window of an existing enrollment
func (s *StudentService) UpdateEnrollment(ctx context.Context, id uuid.UUID, req EnrollmentInput) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateEnrollment(ctx, req.CourseID, req.StartingMonthID, req.EndingMonthID); err != nil {
		return nil, err
	}
	if err := student.UpdateEnrollment(req.CourseID, req.StartingMonthID, req.EndingMonthID); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}

	resp := ToStudentResponse(student)
	return &resp, nil
}

// Unenroll removes a course enrollment from a student. Past payments
// stay in the ledger; only future billing stops.
func (s *StudentService) Unenroll(ctx context.Context, id, courseID uuid.UUID) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := student.Unenroll(courseID); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}

	resp := ToStudentResponse(student)
	return &resp, nil
}

// Delete deletes a student
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.studentRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.studentRepo.Delete(ctx, id)
}

// validateEnrollment checks that the course exists and that the window
// months belong to it.
func (s *StudentService) validateEnrollment(ctx context.Context, courseID, startingMonthID uuid.UUID, endingMonthID *uuid.UUID) error {
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		return shared.NewDomainError("INVALID_COURSE", "Course not found")
	}

	start, err := s.monthRepo.FindByID(ctx, startingMonthID)
	if err != nil {
		return shared.NewDomainError("INVALID_ENROLLMENT", "Starting month not found")
	}
	if start.CourseID != courseID {
		return shared.NewDomainError("INVALID_ENROLLMENT", "Starting month belongs to a different course")
	}

	if endingMonthID != nil {
		end, err := s.monthRepo.FindByID(ctx, *endingMonthID)
		if err != nil {
			return shared.NewDomainError("INVALID_ENROLLMENT", "Ending month not found")
		}
		if end.CourseID != courseID {
			return shared.NewDomainError("INVALID_ENROLLMENT", "Ending month belongs to a different course")
		}
		if end.MonthNumber < start.MonthNumber {
			return shared.NewDomainError("INVALID_ENROLLMENT", "Ending month cannot precede the starting month")
		}
	}

	return nil
}
