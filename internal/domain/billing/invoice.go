package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceLine is the denormalized per-month line of an invoice.
// PreviouslyCovered records what earlier payments already settled on
// the month, so the invoice only bills what this payment owes.
type InvoiceLine struct {
	MonthID           uuid.UUID         `json:"monthId"`
	MonthName         string            `json:"monthName"`
	CourseName        string            `json:"courseName"`
	FeeAmount         valueobject.Money `json:"feeAmount"`
	PreviouslyCovered valueobject.Money `json:"previouslyCovered"`
	DiscountAmount    valueobject.Money `json:"discountAmount"`
	PaidAmount        valueobject.Money `json:"paidAmount"`
}

// NetDue is the amount this invoice bills for the line: the month's fee
// less what earlier payments covered and less the discount.
func (l InvoiceLine) NetDue() valueobject.Money {
	due := l.FeeAmount.MustSubtract(l.PreviouslyCovered).MustSubtract(l.DiscountAmount)
	if due.IsNegative() {
		return valueobject.ZeroBDT()
	}
	return due.Round()
}

// Invoice is the billing document issued for a payment. Student and
// institution names are denormalized so the document stays stable if
// the underlying records change later.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber   string
	PaymentID       uuid.UUID
	StudentID       uuid.UUID
	StudentName     string
	InstitutionName string
	Lines           []InvoiceLine
	GrossAmount     valueobject.Money // fee total of the invoiced months
	DiscountAmount  valueobject.Money
	NetAmount       valueobject.Money // what this payment owes across all lines
	PaidAmount      valueobject.Money
	Status          InvoiceStatus
	DueDate         time.Time
	SentAt          *time.Time
	PaidAt          *time.Time
	CancelledAt     *time.Time
}

// NewInvoice creates a draft invoice for a recorded payment. If the
// payment already settles the net amount the invoice moves straight to
// paid once sent.
func NewInvoice(invoiceNumber string, paymentID, studentID uuid.UUID, studentName, institutionName string, lines []InvoiceLine, dueDate time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number is required")
	}
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Invoice requires a payment")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_INVOICE", "Invoice requires at least one line")
	}

	gross := valueobject.ZeroBDT()
	discount := valueobject.ZeroBDT()
	net := valueobject.ZeroBDT()
	paid := valueobject.ZeroBDT()
	for _, l := range lines {
		gross = gross.MustAdd(l.FeeAmount)
		discount = discount.MustAdd(l.DiscountAmount)
		net = net.MustAdd(l.NetDue())
		paid = paid.MustAdd(l.PaidAmount)
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		PaymentID:         paymentID,
		StudentID:         studentID,
		StudentName:       studentName,
		InstitutionName:   institutionName,
		Lines:             lines,
		GrossAmount:       gross.Round(),
		DiscountAmount:    discount.Round(),
		NetAmount:         net.Round(),
		PaidAmount:        paid.Round(),
		Status:            InvoiceStatusDraft,
		DueDate:           dueDate,
	}

	return inv, nil
}

// Send transitions the invoice from draft to sent. If the recorded
// payment already covers the net amount it continues straight to paid.
func (i *Invoice) Send() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Only draft invoices can be sent, invoice is %s", i.Status))
	}

	now := time.Now()
	i.SentAt = &now
	i.transition(InvoiceStatusSent)

	if i.isSettled() {
		i.PaidAt = &now
		i.transition(InvoiceStatusPaid)
	}

	return nil
}

// MarkPaid transitions a sent or overdue invoice to paid
func (i *Invoice) MarkPaid() error {
	if i.Status != InvoiceStatusSent && i.Status != InvoiceStatusOverdue {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Only sent or overdue invoices can be marked paid, invoice is %s", i.Status))
	}

	now := time.Now()
	i.PaidAt = &now
	i.transition(InvoiceStatusPaid)

	return nil
}

// MarkOverdue transitions a sent invoice past its due date to overdue.
// Returns true if the transition happened.
func (i *Invoice) MarkOverdue(asOf time.Time) bool {
	if i.Status != InvoiceStatusSent {
		return false
	}
	if !asOf.After(i.DueDate) {
		return false
	}

	i.transition(InvoiceStatusOverdue)
	return true
}

// Cancel cancels a draft, sent or overdue invoice. Paid invoices are
// corrected through payment reversal, not cancellation.
func (i *Invoice) Cancel() error {
	switch i.Status {
	case InvoiceStatusPaid:
		return shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be cancelled; reverse the payment instead")
	case InvoiceStatusCancelled:
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}

	now := time.Now()
	i.CancelledAt = &now
	i.transition(InvoiceStatusCancelled)

	return nil
}

// IsOpen returns true while the invoice still awaits settlement
func (i *Invoice) IsOpen() bool {
	return i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusSent || i.Status == InvoiceStatusOverdue
}

func (i *Invoice) isSettled() bool {
	gte, err := i.PaidAmount.GreaterThanOrEqual(i.NetAmount)
	return err == nil && gte
}

func (i *Invoice) transition(to InvoiceStatus) {
	from := i.Status
	i.Status = to
	i.Touch()
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, from, to))
}
