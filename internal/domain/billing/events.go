package billing

import (
	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// Event types for the billing domain
const (
	EventPaymentReceived      = "billing.payment.received"
	EventPaymentReversed      = "billing.payment.reversed"
	EventInvoiceStatusChanged = "billing.invoice.status_changed"
)

// PaymentReceivedEvent is raised when a payment is recorded
type PaymentReceivedEvent struct {
	shared.BaseDomainEvent
	StudentID     uuid.UUID         `json:"studentId"`
	InvoiceNumber string            `json:"invoiceNumber"`
	PaidAmount    valueobject.Money `json:"paidAmount"`
}

// NewPaymentReceivedEvent creates a PaymentReceivedEvent
func NewPaymentReceivedEvent(p *Payment) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentReceived, "Payment", p.ID),
		StudentID:       p.StudentID,
		InvoiceNumber:   p.InvoiceNumber,
		PaidAmount:      p.PaidAmount,
	}
}

// PaymentReversedEvent is raised when a reversal payment is recorded
type PaymentReversedEvent struct {
	shared.BaseDomainEvent
	StudentID  uuid.UUID `json:"studentId"`
	OriginalID uuid.UUID `json:"originalId"`
}

// NewPaymentReversedEvent creates a PaymentReversedEvent
func NewPaymentReversedEvent(reversal *Payment, originalID uuid.UUID) *PaymentReversedEvent {
	return &PaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentReversed, "Payment", reversal.ID),
		StudentID:       reversal.StudentID,
		OriginalID:      originalID,
	}
}

// InvoiceStatusChangedEvent is raised on every invoice transition
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string        `json:"invoiceNumber"`
	OldStatus     InvoiceStatus `json:"oldStatus"`
	NewStatus     InvoiceStatus `json:"newStatus"`
}

// NewInvoiceStatusChangedEvent creates an InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, oldStatus, newStatus InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceStatusChanged, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
