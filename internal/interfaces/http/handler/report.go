package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/u2204125/fee-management-system-sub000/internal/application/report"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// dateRangeQuery binds a from/to date range. Defaults to the trailing
// twelve months when both bounds are omitted.
type dateRangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

func (q dateRangeQuery) resolve() (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(-1, 0, 0)
	to := now

	if q.From != "" {
		parsed, err := time.Parse("2006-01-02", q.From)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if q.To != "" {
		parsed, err := time.Parse("2006-01-02", q.To)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Include the whole end day
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return from, to, nil
}

// MonthlyRevenue returns collections aggregated per calendar month.
func (h *ReportHandler) MonthlyRevenue(c *gin.Context) {
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, to, err := q.resolve()
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	report, err := h.reportService.MonthlyRevenue(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// Discounts returns discounted payments in the period.
func (h *ReportHandler) Discounts(c *gin.Context) {
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, to, err := q.resolve()
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	report, err := h.reportService.Discounts(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// PendingDues returns students with outstanding dues, optionally
// limited to one batch.
func (h *ReportHandler) PendingDues(c *gin.Context) {
	batchID := uuid.Nil
	if raw := c.Query("batch_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid batch ID format")
			return
		}
		batchID = parsed
	}

	report, err := h.reportService.PendingDues(c.Request.Context(), batchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// Dashboard returns headline counters and the current month's
// collection totals.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	report, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}
