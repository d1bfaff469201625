package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/billing"
)

// SubmitPaymentRequest is the application-level input for recording a
// payment against a student's selected months.
type SubmitPaymentRequest struct {
	StudentID        uuid.UUID
	MonthIDs         []uuid.UUID
	PaidAmount       decimal.Decimal
	DiscountValue    decimal.Decimal
	DiscountType     string
	DiscountMonthIDs []uuid.UUID
	ReceivedBy       string
	Reference        string
}

// ReversePaymentRequest requests the reversal of a recorded payment
type ReversePaymentRequest struct {
	PaymentID  uuid.UUID
	ReceivedBy string
	Reference  string
}

// MonthPaymentResponse is the per-month breakdown in API responses
type MonthPaymentResponse struct {
	MonthID        uuid.UUID `json:"month_id"`
	CourseID       uuid.UUID `json:"course_id"`
	MonthName      string    `json:"month_name"`
	CourseName     string    `json:"course_name"`
	FeeAmount      string    `json:"fee_amount"`
	PaidAmount     string    `json:"paid_amount"`
	DiscountAmount string    `json:"discount_amount"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID              `json:"id"`
	StudentID      uuid.UUID              `json:"student_id"`
	InvoiceNumber  string                 `json:"invoice_number"`
	PaidAmount     string                 `json:"paid_amount"`
	DiscountAmount string                 `json:"discount_amount"`
	DiscountType   string                 `json:"discount_type,omitempty"`
	MonthPayments  []MonthPaymentResponse `json:"month_payments"`
	ReceivedBy     string                 `json:"received_by"`
	Reference      string                 `json:"reference,omitempty"`
	ReversalOf     *uuid.UUID             `json:"reversal_of,omitempty"`
	Reversed       bool                   `json:"reversed"`
	ReceivedAt     time.Time              `json:"received_at"`
}

// InvoiceLineResponse is one line of an invoice in API responses
type InvoiceLineResponse struct {
	MonthID           uuid.UUID `json:"month_id"`
	MonthName         string    `json:"month_name"`
	CourseName        string    `json:"course_name"`
	FeeAmount         string    `json:"fee_amount"`
	PreviouslyCovered string    `json:"previously_covered"`
	DiscountAmount    string    `json:"discount_amount"`
	PaidAmount        string    `json:"paid_amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	PaymentID       uuid.UUID             `json:"payment_id"`
	StudentID       uuid.UUID             `json:"student_id"`
	StudentName     string                `json:"student_name"`
	InstitutionName string                `json:"institution_name"`
	Lines           []InvoiceLineResponse `json:"lines"`
	GrossAmount     string                `json:"gross_amount"`
	DiscountAmount  string                `json:"discount_amount"`
	NetAmount       string                `json:"net_amount"`
	PaidAmount      string                `json:"paid_amount"`
	Status          string                `json:"status"`
	DueDate         time.Time             `json:"due_date"`
	SentAt          *time.Time            `json:"sent_at,omitempty"`
	PaidAt          *time.Time            `json:"paid_at,omitempty"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
}

// SubmitPaymentResult is the outcome of recording a payment
type SubmitPaymentResult struct {
	Payment         PaymentResponse   `json:"payment"`
	Invoice         InvoiceResponse   `json:"invoice"`
	TotalPaid       string            `json:"total_paid"`
	TotalDiscount   string            `json:"total_discount"`
	TotalDue        string            `json:"total_due"`
	RemainingAmount string            `json:"remaining_amount"`
	FullySettled    bool              `json:"fully_settled"`
	Warnings        []billing.Warning `json:"warnings,omitempty"`
}

// MonthDueResponse is one outstanding month in a dues preview
type MonthDueResponse struct {
	MonthID     uuid.UUID `json:"month_id"`
	CourseID    uuid.UUID `json:"course_id"`
	MonthName   string    `json:"month_name"`
	CourseName  string    `json:"course_name"`
	MonthNumber int       `json:"month_number"`
	FeeAmount   string    `json:"fee_amount"`
	Covered     string    `json:"covered"`
	Due         string    `json:"due"`
}

// StudentDuesResponse is the full dues preview for a student
type StudentDuesResponse struct {
	StudentID uuid.UUID          `json:"student_id"`
	Months    []MonthDueResponse `json:"months"`
	TotalDue  string             `json:"total_due"`
	Warnings  []billing.Warning  `json:"warnings,omitempty"`
}

// PaymentListFilter narrows payment listings
type PaymentListFilter struct {
	Page     int
	PageSize int
	From     *time.Time
	To       *time.Time
}

// ToPaymentResponse converts a payment aggregate to its response form
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	months := make([]MonthPaymentResponse, len(p.MonthPayments))
	for i, mp := range p.MonthPayments {
		months[i] = MonthPaymentResponse{
			MonthID:        mp.MonthID,
			CourseID:       mp.CourseID,
			MonthName:      mp.MonthName,
			CourseName:     mp.CourseName,
			FeeAmount:      mp.FeeAmount.StringFixed(2),
			PaidAmount:     mp.PaidAmount.StringFixed(2),
			DiscountAmount: mp.DiscountAmount.StringFixed(2),
		}
	}

	return PaymentResponse{
		ID:             p.ID,
		StudentID:      p.StudentID,
		InvoiceNumber:  p.InvoiceNumber,
		PaidAmount:     p.PaidAmount.StringFixed(2),
		DiscountAmount: p.DiscountAmount.StringFixed(2),
		DiscountType:   string(p.DiscountType),
		MonthPayments:  months,
		ReceivedBy:     p.ReceivedBy,
		Reference:      p.Reference,
		ReversalOf:     p.ReversalOf,
		Reversed:       p.Reversed,
		ReceivedAt:     p.ReceivedAt,
	}
}

// ToInvoiceResponse converts an invoice aggregate to its response form
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			MonthID:           l.MonthID,
			MonthName:         l.MonthName,
			CourseName:        l.CourseName,
			FeeAmount:         l.FeeAmount.StringFixed(2),
			PreviouslyCovered: l.PreviouslyCovered.StringFixed(2),
			DiscountAmount:    l.DiscountAmount.StringFixed(2),
			PaidAmount:        l.PaidAmount.StringFixed(2),
		}
	}

	return InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		PaymentID:       inv.PaymentID,
		StudentID:       inv.StudentID,
		StudentName:     inv.StudentName,
		InstitutionName: inv.InstitutionName,
		Lines:           lines,
		GrossAmount:     inv.GrossAmount.StringFixed(2),
		DiscountAmount:  inv.DiscountAmount.StringFixed(2),
		NetAmount:       inv.NetAmount.StringFixed(2),
		PaidAmount:      inv.PaidAmount.StringFixed(2),
		Status:          string(inv.Status),
		DueDate:         inv.DueDate,
		SentAt:          inv.SentAt,
		PaidAt:          inv.PaidAt,
		CancelledAt:     inv.CancelledAt,
	}
}
