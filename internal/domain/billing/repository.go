package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

// PaymentRepository persists payments. Payments are insert-only;
// the only permitted update is flagging a payment as reversed.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]Payment, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Payment, error)
	FindReceivedBetween(ctx context.Context, from, to time.Time) ([]Payment, error)
	ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error)
	Create(ctx context.Context, payment *Payment) error
	// CreateWithInvoice inserts a payment and its invoice atomically.
	CreateWithInvoice(ctx context.Context, payment *Payment, invoice *Invoice) error
	MarkReversed(ctx context.Context, payment *Payment) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	shared.Repository[Invoice]
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]Invoice, error)
	FindOpenPastDue(ctx context.Context, asOf time.Time) ([]Invoice, error)
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}
