package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenueByMonthRow is one calendar month of collected fees. Reversal
// payments carry negative amounts, so reversed collections net out.
type RevenueByMonthRow struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	PaymentCount  int64           `json:"payment_count"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
}

// DiscountRow is one discounted payment in the discount report
type DiscountRow struct {
	PaymentID      uuid.UUID       `json:"payment_id"`
	StudentID      uuid.UUID       `json:"student_id"`
	StudentName    string          `json:"student_name"`
	InvoiceNumber  string          `json:"invoice_number"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountType   string          `json:"discount_type"`
	Reference      string          `json:"reference"`
	ReceivedBy     string          `json:"received_by"`
	ReceivedAt     time.Time       `json:"received_at"`
}

// DashboardCounts holds the entity counts shown on the dashboard
type DashboardCounts struct {
	Students     int64 `json:"students"`
	Batches      int64 `json:"batches"`
	Courses      int64 `json:"courses"`
	Institutions int64 `json:"institutions"`
	OpenInvoices int64 `json:"open_invoices"`
}

// FeeReportRepository exposes the aggregate queries behind reports.
// Implementations push the aggregation into the database.
type FeeReportRepository interface {
	RevenueByMonth(ctx context.Context, from, to time.Time) ([]RevenueByMonthRow, error)
	Discounts(ctx context.Context, from, to time.Time) ([]DiscountRow, error)
	Counts(ctx context.Context) (DashboardCounts, error)
	CollectedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
