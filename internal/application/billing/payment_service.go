package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/billing"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// PaymentServiceConfig contains tunables for payment recording
type PaymentServiceConfig struct {
	InvoiceDueIn time.Duration // how long after issue an invoice is due
}

// DefaultPaymentServiceConfig returns default configuration
func DefaultPaymentServiceConfig() PaymentServiceConfig {
	return PaymentServiceConfig{
		InvoiceDueIn: 7 * 24 * time.Hour,
	}
}

// studentLocks serializes payment submission per student. Two
// concurrent submissions for the same student would both read the
// ledger before either write lands, so each student's payments are
// recorded one at a time.
type studentLocks struct {
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func (l *studentLocks) lock(studentID uuid.UUID) func() {
	mu, _ := l.locks.LoadOrStore(studentID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// PaymentService records payments, reversals and dues previews
type PaymentService struct {
	studentRepo     academy.StudentRepository
	institutionRepo academy.InstitutionRepository
	courseRepo      academy.CourseRepository
	monthRepo       academy.MonthRepository
	paymentRepo     billing.PaymentRepository
	resolver        *billing.ScheduleResolver
	engine          *billing.AllocationEngine
	numbers         *billing.InvoiceNumberGenerator
	config          PaymentServiceConfig
	logger          *zap.Logger
	locks           studentLocks
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	studentRepo academy.StudentRepository,
	institutionRepo academy.InstitutionRepository,
	courseRepo academy.CourseRepository,
	monthRepo academy.MonthRepository,
	paymentRepo billing.PaymentRepository,
	numbers *billing.InvoiceNumberGenerator,
	config PaymentServiceConfig,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		studentRepo:     studentRepo,
		institutionRepo: institutionRepo,
		courseRepo:      courseRepo,
		monthRepo:       monthRepo,
		paymentRepo:     paymentRepo,
		resolver:        billing.NewScheduleResolver(),
		engine:          billing.NewAllocationEngine(),
		numbers:         numbers,
		config:          config,
		logger:          logger,
	}
}

// SubmitPayment records a payment for a student: it resolves the fee
// schedule, replays the payment history, runs the allocation and
// persists the payment together with its invoice. Submissions for the
// same student are serialized.
func (s *PaymentService) SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*SubmitPaymentResult, error) {
	discountType, err := parseDiscountType(req.DiscountType)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(req.StudentID)
	defer unlock()

	student, err := s.studentRepo.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.resolveSchedule(ctx, student)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment history: %w", err)
	}
	ledger := billing.BuildLedger(payments)

	allocation, err := s.engine.Allocate(billing.AllocationRequest{
		Schedule:         schedule,
		Ledger:           ledger,
		SelectedMonthIDs: req.MonthIDs,
		PaidAmount:       valueobject.NewMoneyBDT(req.PaidAmount),
		DiscountValue:    req.DiscountValue,
		DiscountType:     discountType,
		DiscountMonthIDs: req.DiscountMonthIDs,
		ReceivedBy:       req.ReceivedBy,
		Reference:        req.Reference,
	})
	if err != nil {
		return nil, err
	}

	invoiceNumber, err := s.numbers.Generate(ctx, s.paymentRepo.ExistsByInvoiceNumber)
	if err != nil {
		return nil, err
	}

	payment, err := billing.NewPayment(
		req.StudentID,
		invoiceNumber,
		allocation.TotalPaid,
		allocation.TotalDiscount,
		discountType,
		req.DiscountMonthIDs,
		allocation.MonthPayments(),
		req.ReceivedBy,
		req.Reference,
	)
	if err != nil {
		return nil, err
	}

	invoice, err := s.buildInvoice(ctx, invoiceNumber, payment, student, allocation)
	if err != nil {
		return nil, err
	}
	if err := invoice.Send(); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.CreateWithInvoice(ctx, payment, invoice); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.logger.Info("Payment recorded",
		zap.String("student_id", req.StudentID.String()),
		zap.String("invoice_number", invoiceNumber),
		zap.String("paid", allocation.TotalPaid.StringFixed(2)),
		zap.String("discount", allocation.TotalDiscount.StringFixed(2)),
		zap.Int("warnings", len(allocation.Warnings)))

	warnings := append([]billing.Warning{}, schedule.Warnings...)
	warnings = append(warnings, allocation.Warnings...)

	return &SubmitPaymentResult{
		Payment:         ToPaymentResponse(payment),
		Invoice:         ToInvoiceResponse(invoice),
		TotalPaid:       allocation.TotalPaid.StringFixed(2),
		TotalDiscount:   allocation.TotalDiscount.StringFixed(2),
		TotalDue:        allocation.TotalDue.StringFixed(2),
		RemainingAmount: allocation.RemainingAmount.StringFixed(2),
		FullySettled:    allocation.FullySettled,
		Warnings:        warnings,
	}, nil
}

// ReversePayment records a negating payment for an earlier one.
// The original payment is never edited; the reversal is a new row.
func (s *PaymentService) ReversePayment(ctx context.Context, req ReversePaymentRequest) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(payment.StudentID)
	defer unlock()

	reversal, err := payment.Reverse(req.ReceivedBy, req.Reference)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Create(ctx, reversal); err != nil {
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}
	if err := s.paymentRepo.MarkReversed(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to flag reversed payment: %w", err)
	}

	s.logger.Info("Payment reversed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("reversal_id", reversal.ID.String()),
		zap.String("student_id", payment.StudentID.String()))

	resp := ToPaymentResponse(reversal)
	return &resp, nil
}

// GetStudentDues resolves the student's schedule and replays the
// ledger to produce a per-month dues preview.
func (s *PaymentService) GetStudentDues(ctx context.Context, studentID uuid.UUID) (*StudentDuesResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.resolveSchedule(ctx, student)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment history: %w", err)
	}

	dues := billing.ComputeDues(schedule, billing.BuildLedger(payments))

	resp := &StudentDuesResponse{
		StudentID: studentID,
		Months:    make([]MonthDueResponse, len(dues)),
		Warnings:  schedule.Warnings,
	}

	total := "0.00"
	if len(dues) > 0 {
		sum := dues[0].Due
		for _, d := range dues[1:] {
			sum = sum.MustAdd(d.Due)
		}
		total = sum.StringFixed(2)
	}

	for i, d := range dues {
		resp.Months[i] = MonthDueResponse{
			MonthID:     d.MonthID,
			CourseID:    d.CourseID,
			MonthName:   d.MonthName,
			CourseName:  d.CourseName,
			MonthNumber: d.MonthNumber,
			FeeAmount:   d.FeeAmount.StringFixed(2),
			Covered:     d.Covered.StringFixed(2),
			Due:         d.Due.StringFixed(2),
		}
	}
	resp.TotalDue = total

	return resp, nil
}

// GetByID retrieves a single payment
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// ListByStudent retrieves all payments for a student, newest first
func (s *PaymentService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, nil
}

// List retrieves payments with pagination, optionally bounded to a
// received-at date range. To is an inclusive date; the query bound is
// the following midnight.
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	filters := make(map[string]interface{})
	if filter.From != nil {
		filters["received_from"] = *filter.From
	}
	if filter.To != nil {
		filters["received_before"] = filter.To.AddDate(0, 0, 1)
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "received_at",
		OrderDir: "desc",
		Filters:  filters,
	}

	payments, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.paymentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, total, nil
}

// resolveSchedule loads the student's enrolled courses and their
// months and resolves the fee schedule.
func (s *PaymentService) resolveSchedule(ctx context.Context, student *academy.Student) (billing.Schedule, error) {
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
			return billing.Schedule{}, fmt.Errorf("failed to load courses: %w", err)
		}
		for _, c := range courses {
			courseMonths, err := s.monthRepo.FindByCourse(ctx, c.ID)
			if err != nil {
				return billing.Schedule{}, fmt.Errorf("failed to load months for course %s: %w", c.ID, err)
			}
			months = append(months, courseMonths...)
		}
	}

	return s.resolver.Resolve(student, courses, months), nil
}

// buildInvoice assembles the invoice document for a freshly allocated
// payment. Lines cover every allocated month so the invoice shows the
// remaining due per month, not just the months that received money.
func (s *PaymentService) buildInvoice(ctx context.Context, invoiceNumber string, payment *billing.Payment, student *academy.Student, allocation *billing.AllocationResult) (*billing.Invoice, error) {
	institutionName := ""
	if student.InstitutionID != uuid.Nil {
		institution, err := s.institutionRepo.FindByID(ctx, student.InstitutionID)
		if err == nil {
			institutionName = institution.Name
		} else {
			s.logger.Warn("Failed to load institution for invoice",
				zap.String("institution_id", student.InstitutionID.String()),
				zap.Error(err))
		}
	}

	lines := make([]billing.InvoiceLine, 0, len(allocation.Allocations))
	for _, a := range allocation.Allocations {
		lines = append(lines, billing.InvoiceLine{
			MonthID:           a.MonthID,
			MonthName:         a.MonthName,
			CourseName:        a.CourseName,
			FeeAmount:         a.FeeAmount,
			PreviouslyCovered: a.PreviouslyCovered,
			DiscountAmount:    a.DiscountApplied,
			PaidAmount:        a.PaidApplied,
		})
	}

	return billing.NewInvoice(
		invoiceNumber,
		payment.ID,
		student.ID,
		student.Name,
		institutionName,
		lines,
		time.Now().Add(s.config.InvoiceDueIn),
	)
}

func parseDiscountType(raw string) (billing.DiscountType, error) {
	switch billing.DiscountType(raw) {
	case billing.DiscountNone, billing.DiscountFixed, billing.DiscountPercentage:
		return billing.DiscountType(raw), nil
	}
	// "percent" is the shorthand older clients send.
	if raw == "percent" {
		return billing.DiscountPercentage, nil
	}
	return billing.DiscountNone, shared.NewDomainError("INVALID_DISCOUNT", fmt.Sprintf("Unknown discount type %q", raw))
}
