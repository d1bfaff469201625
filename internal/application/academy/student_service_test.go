package academy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// =============================================================================
// Mock repositories
// =============================================================================

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Student), args.Error(1)
}

func (m *MockStudentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academy.Student, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]academy.Student), args.Error(1)
}

func (m *MockStudentRepository) Save(ctx context.Context, student *academy.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStudentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]academy.Student, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).([]academy.Student), args.Error(1)
}

func (m *MockStudentRepository) FindEnrolledInCourse(ctx context.Context, courseID uuid.UUID) ([]academy.Student, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).([]academy.Student), args.Error(1)
}

type MockInstitutionRepository struct {
	mock.Mock
}

func (m *MockInstitutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Institution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Institution), args.Error(1)
}

func (m *MockInstitutionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academy.Institution, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]academy.Institution), args.Error(1)
}

func (m *MockInstitutionRepository) Save(ctx context.Context, institution *academy.Institution) error {
	args := m.Called(ctx, institution)
	return args.Error(0)
}

func (m *MockInstitutionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInstitutionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInstitutionRepository) FindByName(ctx context.Context, name string) (*academy.Institution, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Institution), args.Error(1)
}

type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academy.Batch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]academy.Batch), args.Error(1)
}

func (m *MockBatchRepository) Save(ctx context.Context, batch *academy.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBatchRepository) FindByName(ctx context.Context, name string) (*academy.Batch, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Batch), args.Error(1)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Course), args.Error(1)
}

func (m *MockCourseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academy.Course, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]academy.Course), args.Error(1)
}

func (m *MockCourseRepository) Save(ctx context.Context, course *academy.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourseRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]academy.Course, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).([]academy.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]academy.Course, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]academy.Course), args.Error(1)
}

type MockMonthRepository struct {
	mock.Mock
}

func (m *MockMonthRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Month, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Month), args.Error(1)
}

func (m *MockMonthRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academy.Month, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]academy.Month), args.Error(1)
}

func (m *MockMonthRepository) Save(ctx context.Context, month *academy.Month) error {
	args := m.Called(ctx, month)
	return args.Error(0)
}

func (m *MockMonthRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMonthRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMonthRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]academy.Month, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).([]academy.Month), args.Error(1)
}

func (m *MockMonthRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]academy.Month, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]academy.Month), args.Error(1)
}

func (m *MockMonthRepository) FindByCourseAndNumber(ctx context.Context, courseID uuid.UUID, monthNumber int) (*academy.Month, error) {
	args := m.Called(ctx, courseID, monthNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Month), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

type studentFixture struct {
	service     *StudentService
	studentRepo *MockStudentRepository
	instRepo    *MockInstitutionRepository
	batchRepo   *MockBatchRepository
	courseRepo  *MockCourseRepository
	monthRepo   *MockMonthRepository

	batch  *academy.Batch
	course *academy.Course
	months []academy.Month
}

func newStudentFixture(t *testing.T) *studentFixture {
	t.Helper()

	batch, err := academy.NewBatch("HSC 2026")
	require.NoError(t, err)

	course, err := academy.NewCourse(batch.ID, "Physics", valueobject.NewMoneyBDTFromFloat(1000))
	require.NoError(t, err)

	months := make([]academy.Month, 3)
	names := []string{"January", "February", "March"}
	for i := range months {
		month, err := academy.NewMonth(course.ID, names[i], i+1, valueobject.NewMoneyBDTFromFloat(1000))
		require.NoError(t, err)
		months[i] = *month
	}

	f := &studentFixture{
		studentRepo: new(MockStudentRepository),
		instRepo:    new(MockInstitutionRepository),
		batchRepo:   new(MockBatchRepository),
		courseRepo:  new(MockCourseRepository),
		monthRepo:   new(MockMonthRepository),
		batch:       batch,
		course:      course,
		months:      months,
	}

	f.service = NewStudentService(f.studentRepo, f.instRepo, f.batchRepo, f.courseRepo, f.monthRepo)
	return f
}

func (f *studentFixture) expectMonth(i int) {
	f.monthRepo.On("FindByID", mock.Anything, f.months[i].ID).Return(&f.months[i], nil)
}

// =============================================================================
// Tests
// =============================================================================

func TestStudentServiceCreate(t *testing.T) {
	t.Run("creates student with enrollment", func(t *testing.T) {
		f := newStudentFixture(t)
		f.batchRepo.On("FindByID", mock.Anything, f.batch.ID).Return(f.batch, nil)
		f.courseRepo.On("FindByID", mock.Anything, f.course.ID).Return(f.course, nil)
		f.expectMonth(0)
		f.studentRepo.On("Save", mock.Anything, mock.AnythingOfType("*academy.Student")).Return(nil)

		resp, err := f.service.Create(context.Background(), CreateStudentRequest{
			Name:    "Rahim Uddin",
			Phone:   "01711111111",
			BatchID: f.batch.ID,
			Enrollments: []EnrollmentInput{{
				CourseID:        f.course.ID,
				StartingMonthID: f.months[0].ID,
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Rahim Uddin", resp.Name)
		require.Len(t, resp.Enrollments, 1)
		assert.Equal(t, f.course.ID, resp.Enrollments[0].CourseID)
	})

	t.Run("rejects unknown batch", func(t *testing.T) {
		f := newStudentFixture(t)
		f.batchRepo.On("FindByID", mock.Anything, f.batch.ID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(context.Background(), CreateStudentRequest{
			Name:    "Rahim Uddin",
			BatchID: f.batch.ID,
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_BATCH", domainErr.Code)
	})

	t.Run("rejects enrollment window ending before it starts", func(t *testing.T) {
		f := newStudentFixture(t)
		f.batchRepo.On("FindByID", mock.Anything, f.batch.ID).Return(f.batch, nil)
		f.courseRepo.On("FindByID", mock.Anything, f.course.ID).Return(f.course, nil)
		f.expectMonth(0)
		f.expectMonth(2)

		_, err := f.service.Create(context.Background(), CreateStudentRequest{
			Name:    "Rahim Uddin",
			BatchID: f.batch.ID,
			Enrollments: []EnrollmentInput{{
				CourseID:        f.course.ID,
				StartingMonthID: f.months[2].ID,
				EndingMonthID:   &f.months[0].ID,
			}},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ENROLLMENT", domainErr.Code)
		f.studentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestStudentServiceEnroll(t *testing.T) {
	t.Run("rejects starting month from another course", func(t *testing.T) {
		f := newStudentFixture(t)

		student, err := academy.NewStudent("Rahim Uddin", "", "", "", uuid.Nil, f.batch.ID)
		require.NoError(t, err)

		otherMonth, err := academy.NewMonth(uuid.New(), "January", 1, valueobject.NewMoneyBDTFromFloat(500))
		require.NoError(t, err)

		f.studentRepo.On("FindByID", mock.Anything, student.ID).Return(student, nil)
		f.courseRepo.On("FindByID", mock.Anything, f.course.ID).Return(f.course, nil)
		f.monthRepo.On("FindByID", mock.Anything, otherMonth.ID).Return(otherMonth, nil)

		_, err = f.service.Enroll(context.Background(), student.ID, EnrollmentInput{
			CourseID:        f.course.ID,
			StartingMonthID: otherMonth.ID,
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ENROLLMENT", domainErr.Code)
	})

	t.Run("rejects duplicate enrollment", func(t *testing.T) {
		f := newStudentFixture(t)

		student, err := academy.NewStudent("Rahim Uddin", "", "", "", uuid.Nil, f.batch.ID)
		require.NoError(t, err)
		require.NoError(t, student.Enroll(f.course.ID, f.months[0].ID, nil))

		f.studentRepo.On("FindByID", mock.Anything, student.ID).Return(student, nil)
		f.courseRepo.On("FindByID", mock.Anything, f.course.ID).Return(f.course, nil)
		f.expectMonth(1)

		_, err = f.service.Enroll(context.Background(), student.ID, EnrollmentInput{
			CourseID:        f.course.ID,
			StartingMonthID: f.months[1].ID,
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_ENROLLED", domainErr.Code)
	})
}

func TestBatchServiceDeleteGuards(t *testing.T) {
	f := newStudentFixture(t)
	service := NewBatchService(f.batchRepo, f.courseRepo, f.studentRepo)

	f.batchRepo.On("FindByID", mock.Anything, f.batch.ID).Return(f.batch, nil)
	f.courseRepo.On("FindByBatch", mock.Anything, f.batch.ID).Return([]academy.Course{*f.course}, nil)

	err := service.Delete(context.Background(), f.batch.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "HAS_COURSES", domainErr.Code)
	f.batchRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestMonthServiceCreateDefaultsFee(t *testing.T) {
	f := newStudentFixture(t)
	service := NewMonthService(f.monthRepo, f.courseRepo)

	f.courseRepo.On("FindByID", mock.Anything, f.course.ID).Return(f.course, nil)
	f.monthRepo.On("FindByCourseAndNumber", mock.Anything, f.course.ID, 4).Return(nil, shared.ErrNotFound)
	f.monthRepo.On("Save", mock.Anything, mock.AnythingOfType("*academy.Month")).Return(nil)

	resp, err := service.Create(context.Background(), CreateMonthRequest{
		CourseID:    f.course.ID,
		Name:        "April",
		MonthNumber: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "1000.00", resp.Fee)
}
