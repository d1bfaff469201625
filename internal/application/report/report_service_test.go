package report

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/billing"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/report"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

type MockFeeReportRepository struct {
	mock.Mock
}

func (m *MockFeeReportRepository) RevenueByMonth(ctx context.Context, from, to time.Time) ([]report.RevenueByMonthRow, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]report.RevenueByMonthRow), args.Error(1)
}

func (m *MockFeeReportRepository) Discounts(ctx context.Context, from, to time.Time) ([]report.DiscountRow, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]report.DiscountRow), args.Error(1)
}

func (m *MockFeeReportRepository) Counts(ctx context.Context) (report.DashboardCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.DashboardCounts), args.Error(1)
}

func (m *MockFeeReportRepository) CollectedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

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

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.Payment, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindReceivedBetween(ctx context.Context, from, to time.Time) ([]billing.Payment, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) CreateWithInvoice(ctx context.Context, payment *billing.Payment, invoice *billing.Invoice) error {
	args := m.Called(ctx, payment, invoice)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkReversed(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// memoryCache is a simple map-backed Cache for tests
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func newReportService(reportRepo *MockFeeReportRepository, studentRepo *MockStudentRepository, courseRepo *MockCourseRepository, monthRepo *MockMonthRepository, paymentRepo *MockPaymentRepository, cache Cache) *ReportService {
	return NewReportService(reportRepo, studentRepo, courseRepo, monthRepo, paymentRepo, cache, DefaultReportServiceConfig(), zap.NewNop())
}

func TestMonthlyRevenueUsesCache(t *testing.T) {
	reportRepo := new(MockFeeReportRepository)
	service := newReportService(reportRepo, new(MockStudentRepository), new(MockCourseRepository), new(MockMonthRepository), new(MockPaymentRepository), newMemoryCache())

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	reportRepo.On("RevenueByMonth", mock.Anything, from, to).Return([]report.RevenueByMonthRow{
		{Year: 2026, Month: 1, PaymentCount: 12, TotalPaid: decimal.NewFromInt(24000), TotalDiscount: decimal.NewFromInt(1000)},
	}, nil).Once()

	first, err := service.MonthlyRevenue(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, first.Rows, 1)
	assert.Equal(t, "24000.00", first.Rows[0].TotalPaid)

	// Second call is served from cache; the repository is not hit again.
	second, err := service.MonthlyRevenue(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, first.Rows, second.Rows)
	reportRepo.AssertNumberOfCalls(t, "RevenueByMonth", 1)
}

func TestPendingDues(t *testing.T) {
	reportRepo := new(MockFeeReportRepository)
	studentRepo := new(MockStudentRepository)
	courseRepo := new(MockCourseRepository)
	monthRepo := new(MockMonthRepository)
	paymentRepo := new(MockPaymentRepository)
	service := newReportService(reportRepo, studentRepo, courseRepo, monthRepo, paymentRepo, nil)

	batchID := uuid.New()
	course, err := academy.NewCourse(batchID, "Physics", valueobject.NewMoneyBDTFromFloat(1000))
	require.NoError(t, err)

	month, err := academy.NewMonth(course.ID, "January", 1, valueobject.NewMoneyBDTFromFloat(1000))
	require.NoError(t, err)

	owing, err := academy.NewStudent("Rahim Uddin", "", "", "", uuid.Nil, batchID)
	require.NoError(t, err)
	require.NoError(t, owing.Enroll(course.ID, month.ID, nil))

	settled, err := academy.NewStudent("Karim Uddin", "", "", "", uuid.Nil, batchID)
	require.NoError(t, err)
	require.NoError(t, settled.Enroll(course.ID, month.ID, nil))

	studentRepo.On("FindByBatch", mock.Anything, batchID).Return([]academy.Student{*owing, *settled}, nil)
	courseRepo.On("FindByIDs", mock.Anything, []uuid.UUID{course.ID}).Return([]academy.Course{*course}, nil)
	monthRepo.On("FindByCourse", mock.Anything, course.ID).Return([]academy.Month{*month}, nil)

	paymentRepo.On("FindByStudent", mock.Anything, owing.ID).Return([]billing.Payment{}, nil)

	settling := billing.Payment{MonthPayments: []billing.MonthPayment{{
		MonthID:    month.ID,
		PaidAmount: valueobject.NewMoneyBDTFromFloat(1000),
	}}}
	paymentRepo.On("FindByStudent", mock.Anything, settled.ID).Return([]billing.Payment{settling}, nil)

	resp, err := service.PendingDues(context.Background(), batchID)
	require.NoError(t, err)

	require.Len(t, resp.Rows, 1)
	assert.Equal(t, owing.ID, resp.Rows[0].StudentID)
	assert.Equal(t, "1000.00", resp.Rows[0].TotalDue)
	assert.Equal(t, 1, resp.Rows[0].MonthsOutstanding)
	assert.Equal(t, "1000.00", resp.TotalDue)
}
