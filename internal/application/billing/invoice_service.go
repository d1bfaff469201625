package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/billing"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceService handles invoice lookups and lifecycle transitions
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// GetByID retrieves a single invoice
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// GetByNumber retrieves an invoice by its invoice number
func (s *InvoiceService) GetByNumber(ctx context.Context, invoiceNumber string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// ListByStudent retrieves all invoices for a student
func (s *InvoiceService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, nil
}

// List retrieves invoices with pagination
func (s *InvoiceService) List(ctx context.Context, page, pageSize int) ([]InvoiceResponse, int64, error) {
	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// Send transitions a draft invoice to sent
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.Send(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice sent", zap.String("invoice_number", invoice.InvoiceNumber))

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// MarkPaid transitions a sent or overdue invoice to paid
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.MarkPaid(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice marked paid", zap.String("invoice_number", invoice.InvoiceNumber))

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// Cancel cancels an open invoice. Paid invoices are rejected by the
// aggregate; their payments have to be reversed instead.
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.Cancel(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice cancelled", zap.String("invoice_number", invoice.InvoiceNumber))

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// RefreshOverdue sweeps open invoices past their due date and marks
// them overdue. Returns the number of invoices transitioned.
func (s *InvoiceService) RefreshOverdue(ctx context.Context, asOf time.Time) (int, error) {
	invoices, err := s.invoiceRepo.FindOpenPastDue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range invoices {
		if !invoices[i].MarkOverdue(asOf) {
			continue
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, &invoices[i]); err != nil {
			s.logger.Warn("Failed to persist overdue transition",
				zap.String("invoice_number", invoices[i].InvoiceNumber),
				zap.Error(err))
			continue
		}
		updated++
	}

	if updated > 0 {
		s.logger.Info("Overdue sweep complete", zap.Int("updated", updated))
	}

	return updated, nil
}
