package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/billing"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/report"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Cache is the read-through cache used for report responses. Reports
// replay payment history, so results are cached for a short window.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ReportServiceConfig contains report tunables
type ReportServiceConfig struct {
	CacheTTL time.Duration
}

// DefaultReportServiceConfig returns default configuration
func DefaultReportServiceConfig() ReportServiceConfig {
	return ReportServiceConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// PendingDueRow is one student with outstanding dues
type PendingDueRow struct {
	StudentID         uuid.UUID `json:"student_id"`
	StudentName       string    `json:"student_name"`
	BatchID           uuid.UUID `json:"batch_id"`
	MonthsOutstanding int       `json:"months_outstanding"`
	TotalDue          string    `json:"total_due"`
}

// PendingDuesResponse is the pending dues report
type PendingDuesResponse struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Rows        []PendingDueRow `json:"rows"`
	TotalDue    string          `json:"total_due"`
}

// RevenueMonthRow is one month in the revenue report
type RevenueMonthRow struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	PaymentCount  int64  `json:"payment_count"`
	TotalPaid     string `json:"total_paid"`
	TotalDiscount string `json:"total_discount"`
}

// MonthlyRevenueResponse is the monthly revenue report
type MonthlyRevenueResponse struct {
	From time.Time         `json:"from"`
	To   time.Time         `json:"to"`
	Rows []RevenueMonthRow `json:"rows"`
}

// DiscountReportRow is one discounted payment
type DiscountReportRow struct {
	PaymentID      uuid.UUID `json:"payment_id"`
	StudentID      uuid.UUID `json:"student_id"`
	StudentName    string    `json:"student_name"`
	InvoiceNumber  string    `json:"invoice_number"`
	DiscountAmount string    `json:"discount_amount"`
	DiscountType   string    `json:"discount_type"`
	Reference      string    `json:"reference"`
	ReceivedBy     string    `json:"received_by"`
	ReceivedAt     time.Time `json:"received_at"`
}

// DiscountReportResponse is the discount report
type DiscountReportResponse struct {
	From time.Time           `json:"from"`
	To   time.Time           `json:"to"`
	Rows []DiscountReportRow `json:"rows"`
}

// DashboardResponse is the landing page summary
type DashboardResponse struct {
	Counts         report.DashboardCounts `json:"counts"`
	CollectedToday string                 `json:"collected_today"`
	CollectedMonth string                 `json:"collected_month"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// ReportService produces the reporting read models
type ReportService struct {
	reportRepo  report.FeeReportRepository
	studentRepo academy.StudentRepository
	courseRepo  academy.CourseRepository
	monthRepo   academy.MonthRepository
	paymentRepo billing.PaymentRepository
	resolver    *billing.ScheduleResolver
	cache       Cache
	config      ReportServiceConfig
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo report.FeeReportRepository,
	studentRepo academy.StudentRepository,
	courseRepo academy.CourseRepository,
	monthRepo academy.MonthRepository,
	paymentRepo billing.PaymentRepository,
	cache Cache,
	config ReportServiceConfig,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
		monthRepo:   monthRepo,
		paymentRepo: paymentRepo,
		resolver:    billing.NewScheduleResolver(),
		cache:       cache,
		config:      config,
		logger:      logger,
	}
}

// MonthlyRevenue aggregates collections per calendar month
func (s *ReportService) MonthlyRevenue(ctx context.Context, from, to time.Time) (*MonthlyRevenueResponse, error) {
	key := fmt.Sprintf("report:revenue:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	var cached MonthlyRevenueResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	rows, err := s.reportRepo.RevenueByMonth(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &MonthlyRevenueResponse{From: from, To: to, Rows: make([]RevenueMonthRow, len(rows))}
	for i, r := range rows {
		resp.Rows[i] = RevenueMonthRow{
			Year:          r.Year,
			Month:         r.Month,
			PaymentCount:  r.PaymentCount,
			TotalPaid:     r.TotalPaid.StringFixed(2),
			TotalDiscount: r.TotalDiscount.StringFixed(2),
		}
	}

	s.toCache(ctx, key, resp)
	return resp, nil
}

// Discounts lists discounted payments in the period
func (s *ReportService) Discounts(ctx context.Context, from, to time.Time) (*DiscountReportResponse, error) {
	key := fmt.Sprintf("report:discounts:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	var cached DiscountReportResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	rows, err := s.reportRepo.Discounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &DiscountReportResponse{From: from, To: to, Rows: make([]DiscountReportRow, len(rows))}
	for i, r := range rows {
		resp.Rows[i] = DiscountReportRow{
			PaymentID:      r.PaymentID,
			StudentID:      r.StudentID,
			StudentName:    r.StudentName,
			InvoiceNumber:  r.InvoiceNumber,
			DiscountAmount: r.DiscountAmount.StringFixed(2),
			DiscountType:   r.DiscountType,
			Reference:      r.Reference,
			ReceivedBy:     r.ReceivedBy,
			ReceivedAt:     r.ReceivedAt,
		}
	}

	s.toCache(ctx, key, resp)
	return resp, nil
}

// PendingDues resolves every student's schedule against the ledger and
// reports the students that still owe money. Pass uuid.Nil to cover
// all batches.
func (s *ReportService) PendingDues(ctx context.Context, batchID uuid.UUID) (*PendingDuesResponse, error) {
	key := fmt.Sprintf("report:pending-dues:%s", batchID)

	var cached PendingDuesResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var students []academy.Student
	var err error
	if batchID != uuid.Nil {
		students, err = s.studentRepo.FindByBatch(ctx, batchID)
	} else {
		students, err = s.studentRepo.FindAll(ctx, shared.Filter{})
	}
	if err != nil {
		return nil, err
	}

	resp := &PendingDuesResponse{GeneratedAt: time.Now()}

	total := valueobject.ZeroBDT()
	for i := range students {
		student := &students[i]

		schedule, err := s.resolveSchedule(ctx, student)
		if err != nil {
			s.logger.Warn("Skipping student in dues report",
				zap.String("student_id", student.ID.String()),
				zap.Error(err))
			continue
		}

		payments, err := s.paymentRepo.FindByStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}

		dues := billing.ComputeDues(schedule, billing.BuildLedger(payments))

		outstanding := 0
		studentTotal := valueobject.ZeroBDT()
		for _, d := range dues {
			if d.Due.IsPositive() {
				outstanding++
				studentTotal = studentTotal.MustAdd(d.Due)
			}
		}
		if outstanding == 0 {
			continue
		}

		total = total.MustAdd(studentTotal)
		resp.Rows = append(resp.Rows, PendingDueRow{
			StudentID:         student.ID,
			StudentName:       student.Name,
			BatchID:           student.BatchID,
			MonthsOutstanding: outstanding,
			TotalDue:          studentTotal.StringFixed(2),
		})
	}
	resp.TotalDue = total.StringFixed(2)

	s.toCache(ctx, key, resp)
	return resp, nil
}

// Dashboard assembles the entity counts and collection totals
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	const key = "report:dashboard"

	var cached DashboardResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	counts, err := s.reportRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := s.reportRepo.CollectedBetween(ctx, dayStart, now)
	if err != nil {
		return nil, err
	}
	month, err := s.reportRepo.CollectedBetween(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		Counts:         counts,
		CollectedToday: today.StringFixed(2),
		CollectedMonth: month.StringFixed(2),
		GeneratedAt:    now,
	}

	s.toCache(ctx, key, resp)
	return resp, nil
}

func (s *ReportService) resolveSchedule(ctx context.Context, student *academy.Student) (billing.Schedule, error) {
	courseIDs := make([]uuid.UUID, 0, len(student.Enrollments))
	for _, e := range student.Enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}

	var courses []academy.Course
	var months []academy.Month
	if len(courseIDs) > 0 {
		var err error
		courses, err = s.courseRepo.FindByIDs(ctx, courseIDs)
		if err != nil {
			return billing.Schedule{}, err
		}
		for _, c := range courses {
			courseMonths, err := s.monthRepo.FindByCourse(ctx, c.ID)
			if err != nil {
				return billing.Schedule{}, err
			}
			months = append(months, courseMonths...)
		}
	}

	return s.resolver.Resolve(student, courses, months), nil
}

func (s *ReportService) fromCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Report cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *ReportService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		s.logger.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
