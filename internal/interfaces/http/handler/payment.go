package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	billingapp "github.com/u2204125/fee-management-system-sub000/internal/application/billing"
)

// PaymentHandler handles payment API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// SubmitPaymentRequest represents a request to record a payment against
// a student's selected months
type SubmitPaymentRequest struct {
	StudentID        string          `json:"student_id" binding:"required,uuid"`
	MonthIDs         []string        `json:"month_ids" binding:"required,min=1,dive,uuid"`
	PaidAmount       decimal.Decimal `json:"paid_amount" binding:"required"`
	DiscountValue    decimal.Decimal `json:"discount_value"`
	DiscountType     string          `json:"discount_type" binding:"omitempty,oneof=fixed percentage percent"`
	DiscountMonthIDs []string        `json:"discount_month_ids" binding:"omitempty,dive,uuid"`
	ReceivedBy       string          `json:"received_by" binding:"required,min=1,max=200"`
	Reference        string          `json:"reference" binding:"max=200"`
}

// ReversePaymentRequest represents a request to reverse a recorded payment
type ReversePaymentRequest struct {
	ReceivedBy string `json:"received_by" binding:"required,min=1,max=200"`
	Reference  string `json:"reference" binding:"max=200"`
}

// paymentListQuery binds payment listing query parameters. From and To
// accept dates in YYYY-MM-DD form.
type paymentListQuery struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// parseDate parses a YYYY-MM-DD query parameter
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Submit records a payment covering one or more selected months and
// returns the payment together with its generated invoice.
func (h *PaymentHandler) Submit(c *gin.Context) {
	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return
	}
	monthIDs, err := parseUUIDs(req.MonthIDs)
	if err != nil {
		h.BadRequest(c, "Invalid month ID format")
		return
	}
	discountMonthIDs, err := parseUUIDs(req.DiscountMonthIDs)
	if err != nil {
		h.BadRequest(c, "Invalid discount month ID format")
		return
	}

	result, err := h.paymentService.SubmitPayment(c.Request.Context(), billingapp.SubmitPaymentRequest{
		StudentID:        studentID,
		MonthIDs:         monthIDs,
		PaidAmount:       req.PaidAmount,
		DiscountValue:    req.DiscountValue,
		DiscountType:     req.DiscountType,
		DiscountMonthIDs: discountMonthIDs,
		ReceivedBy:       req.ReceivedBy,
		Reference:        req.Reference,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Reverse records a compensating reversal payment. The original payment
// is never modified.
func (h *PaymentHandler) Reverse(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req ReversePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reversal, err := h.paymentService.ReversePayment(c.Request.Context(), billingapp.ReversePaymentRequest{
		PaymentID:  paymentID,
		ReceivedBy: req.ReceivedBy,
		Reference:  req.Reference,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, reversal)
}

// GetStudentDues returns the outstanding dues preview for a student.
func (h *PaymentHandler) GetStudentDues(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	dues, err := h.paymentService.GetStudentDues(c.Request.Context(), studentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dues)
}

// GetByID returns a single payment.
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// ListByStudent returns all payments of a student.
func (h *PaymentHandler) ListByStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	payments, err := h.paymentService.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payments)
}

// List returns a paginated list of payments, optionally bounded by a
// received-at date range.
func (h *PaymentHandler) List(c *gin.Context) {
	var q paymentListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, err := parseDate(q.From)
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDate(q.To)
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), billingapp.PaymentListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		From:     from,
		To:       to,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, payments, total, q.Page, q.PageSize)
}
