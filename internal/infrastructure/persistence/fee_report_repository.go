package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/billing"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/report"
	"gorm.io/gorm"
)

// GormFeeReportRepository implements FeeReportRepository using GORM.
// Aggregation happens in the database; reversal payments carry negative
// amounts so reversed collections net out without special handling.
type GormFeeReportRepository struct {
	db *gorm.DB
}

// NewGormFeeReportRepository creates a new GormFeeReportRepository
func NewGormFeeReportRepository(db *gorm.DB) *GormFeeReportRepository {
	return &GormFeeReportRepository{db: db}
}

// RevenueByMonth returns collected fees grouped by calendar month
func (r *GormFeeReportRepository) RevenueByMonth(ctx context.Context, from, to time.Time) ([]report.RevenueByMonthRow, error) {
	var rows []report.RevenueByMonthRow
	if err := r.db.WithContext(ctx).
		Table("payments").
		Select(`EXTRACT(YEAR FROM received_at)::int AS year,
			EXTRACT(MONTH FROM received_at)::int AS month,
			COUNT(*) AS payment_count,
			COALESCE(SUM(paid_amount), 0) AS total_paid,
			COALESCE(SUM(discount_amount), 0) AS total_discount`).
		Where("received_at >= ? AND received_at < ?", from, to).
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Discounts returns every discounted payment in the window, newest first
func (r *GormFeeReportRepository) Discounts(ctx context.Context, from, to time.Time) ([]report.DiscountRow, error) {
	var rows []report.DiscountRow
	if err := r.db.WithContext(ctx).
		Table("payments p").
		Select(`p.id AS payment_id,
			p.student_id,
			s.name AS student_name,
			p.invoice_number,
			p.discount_amount,
			p.discount_type,
			p.reference,
			p.received_by,
			p.received_at`).
		Joins("JOIN students s ON s.id = p.student_id").
		Where("p.received_at >= ? AND p.received_at < ?", from, to).
		Where("p.discount_amount <> 0").
		Order("p.received_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Counts returns the entity counts shown on the dashboard
func (r *GormFeeReportRepository) Counts(ctx context.Context) (report.DashboardCounts, error) {
	var counts report.DashboardCounts

	tables := []struct {
		name string
		dest *int64
	}{
		{"students", &counts.Students},
		{"batches", &counts.Batches},
		{"courses", &counts.Courses},
		{"institutions", &counts.Institutions},
	}
	for _, t := range tables {
		if err := r.db.WithContext(ctx).Table(t.name).Count(t.dest).Error; err != nil {
			return report.DashboardCounts{}, err
		}
	}

	openStatuses := []billing.InvoiceStatus{
		billing.InvoiceStatusDraft,
		billing.InvoiceStatusSent,
		billing.InvoiceStatusOverdue,
	}
	if err := r.db.WithContext(ctx).
		Table("invoices").
		Where("status IN ?", openStatuses).
		Count(&counts.OpenInvoices).Error; err != nil {
		return report.DashboardCounts{}, err
	}

	return counts, nil
}

// CollectedBetween returns the net cash collected in the window
func (r *GormFeeReportRepository) CollectedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).
		Table("payments").
		Select("COALESCE(SUM(paid_amount), 0)").
		Where("received_at >= ? AND received_at < ?", from, to).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Ensure GormFeeReportRepository implements FeeReportRepository
var _ report.FeeReportRepository = (*GormFeeReportRepository)(nil)
