package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// DiscountType distinguishes how a payment's discount is distributed
type DiscountType string

const (
	DiscountNone       DiscountType = ""
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// MonthPayment is the per-month breakdown of one payment. It records
// how much of the payment and discount landed on each month.
type MonthPayment struct {
	MonthID        uuid.UUID         `json:"monthId"`
	CourseID       uuid.UUID         `json:"courseId"`
	MonthName      string            `json:"monthName"`
	CourseName     string            `json:"courseName"`
	FeeAmount      valueobject.Money `json:"feeAmount"`
	PaidAmount     valueobject.Money `json:"paidAmount"`
	DiscountAmount valueobject.Money `json:"discountAmount"`
}

// Payment is an immutable record of money received from a student.
// Monetary fields are never edited after creation; mistakes are fixed
// by recording a reversal payment and re-entering.
type Payment struct {
	shared.BaseAggregateRoot
	StudentID        uuid.UUID
	InvoiceNumber    string
	PaidAmount       valueobject.Money
	DiscountAmount   valueobject.Money
	DiscountType     DiscountType
	DiscountMonthIDs []uuid.UUID
	MonthPayments    []MonthPayment
	ReceivedBy       string
	Reference        string
	ReversalOf       *uuid.UUID
	Reversed         bool
	ReceivedAt       time.Time
}

// NewPayment creates a payment from an allocation result. The caller
// is expected to have run the allocation engine first; the month
// breakdown is taken verbatim from the allocations.
func NewPayment(studentID uuid.UUID, invoiceNumber string, paid, discount valueobject.Money, discountType DiscountType, discountMonthIDs []uuid.UUID, breakdown []MonthPayment, receivedBy, reference string) (*Payment, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Payment requires a student")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Payment requires an invoice number")
	}
	if len(breakdown) == 0 {
		return nil, shared.NewDomainError("EMPTY_BREAKDOWN", "Payment requires at least one month allocation")
	}
	if receivedBy == "" {
		return nil, shared.NewDomainError("RECEIVER_REQUIRED", "Payment requires a receiver")
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StudentID:         studentID,
		InvoiceNumber:     invoiceNumber,
		PaidAmount:        paid.Round(),
		DiscountAmount:    discount.Round(),
		DiscountType:      discountType,
		DiscountMonthIDs:  discountMonthIDs,
		MonthPayments:     breakdown,
		ReceivedBy:        receivedBy,
		Reference:         reference,
		ReceivedAt:        time.Now(),
	}

	p.AddDomainEvent(NewPaymentReceivedEvent(p))

	return p, nil
}

// Reverse produces a new payment that exactly negates this one. The
// original is marked reversed; its amounts stay untouched so the
// ledger history remains intact.
func (p *Payment) Reverse(receivedBy, reference string) (*Payment, error) {
	if p.Reversed {
		return nil, shared.NewDomainError("ALREADY_REVERSED", "Payment has already been reversed")
	}
	if p.ReversalOf != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "A reversal payment cannot be reversed; reverse the original instead")
	}
	if receivedBy == "" {
		return nil, shared.NewDomainError("RECEIVER_REQUIRED", "Reversal requires a receiver")
	}

	breakdown := make([]MonthPayment, len(p.MonthPayments))
	for i, mp := range p.MonthPayments {
		breakdown[i] = MonthPayment{
			MonthID:        mp.MonthID,
			CourseID:       mp.CourseID,
			MonthName:      mp.MonthName,
			CourseName:     mp.CourseName,
			FeeAmount:      mp.FeeAmount,
			PaidAmount:     mp.PaidAmount.Negate(),
			DiscountAmount: mp.DiscountAmount.Negate(),
		}
	}

	reversal := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StudentID:         p.StudentID,
		InvoiceNumber:     p.InvoiceNumber,
		PaidAmount:        p.PaidAmount.Negate(),
		DiscountAmount:    p.DiscountAmount.Negate(),
		DiscountType:      p.DiscountType,
		DiscountMonthIDs:  p.DiscountMonthIDs,
		MonthPayments:     breakdown,
		ReceivedBy:        receivedBy,
		Reference:         reference,
		ReversalOf:        &p.ID,
		ReceivedAt:        time.Now(),
	}

	p.Reversed = true
	p.Touch()
	p.IncrementVersion()

	reversal.AddDomainEvent(NewPaymentReversedEvent(reversal, p.ID))

	return reversal, nil
}

// IsReversal returns true if this payment negates another payment
func (p *Payment) IsReversal() bool {
	return p.ReversalOf != nil
}

// NetAmount returns the cash received after discount. For reversals
// the value is negative.
func (p *Payment) NetAmount() valueobject.Money {
	return p.PaidAmount
}
