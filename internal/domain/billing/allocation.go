package billing

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// AllocationRequest carries everything the engine needs to distribute
// one payment across a student's selected months.
type AllocationRequest struct {
	Schedule         Schedule
	Ledger           Ledger
	SelectedMonthIDs []uuid.UUID
	PaidAmount       valueobject.Money
	DiscountValue    decimal.Decimal // money amount for fixed, percent for percentage
	DiscountType     DiscountType
	DiscountMonthIDs []uuid.UUID // defaults to all selected months when empty
	ReceivedBy       string
	Reference        string
}

// MonthAllocation is the engine's per-month outcome
type MonthAllocation struct {
	MonthID            uuid.UUID
	CourseID           uuid.UUID
	MonthName          string
	CourseName         string
	FeeAmount          valueobject.Money
	PreviouslyCovered  valueobject.Money
	DiscountApplied    valueobject.Money
	PaidApplied        valueobject.Money
	DueAfter           valueobject.Money
}

// AllocationResult is the deterministic outcome of one allocation run
type AllocationResult struct {
	Allocations     []MonthAllocation
	TotalPaid       valueobject.Money
	TotalDiscount   valueobject.Money
	TotalDue        valueobject.Money // due across selected months after this payment
	RemainingAmount valueobject.Money // paid amount left unallocated
	FullySettled    bool
	Warnings        []Warning
}

// MonthPayments converts the allocations into a payment breakdown,
// dropping months that received neither payment nor discount.
func (r AllocationResult) MonthPayments() []MonthPayment {
	out := make([]MonthPayment, 0, len(r.Allocations))
	for _, a := range r.Allocations {
		if a.PaidApplied.IsZero() && a.DiscountApplied.IsZero() {
			continue
		}
		out = append(out, MonthPayment{
			MonthID:        a.MonthID,
			CourseID:       a.CourseID,
			MonthName:      a.MonthName,
			CourseName:     a.CourseName,
			FeeAmount:      a.FeeAmount,
			PaidAmount:     a.PaidApplied,
			DiscountAmount: a.DiscountApplied,
		})
	}
	return out
}

// AllocationEngine distributes a payment and its discount across the
// selected months of a student's fee schedule. The engine is pure and
// deterministic: the same request always yields the same result.
type AllocationEngine struct{}

// NewAllocationEngine creates an AllocationEngine
func NewAllocationEngine() *AllocationEngine {
	return &AllocationEngine{}
}

// Allocate validates the request, distributes the discount, then
// applies the paid amount greedily in schedule order. Each month never
// receives more than its remaining due, and when a discount is given
// the payment must settle every selected month in full.
func (e *AllocationEngine) Allocate(req AllocationRequest) (*AllocationResult, error) {
	result := &AllocationResult{
		TotalPaid:       valueobject.ZeroBDT(),
		TotalDiscount:   valueobject.ZeroBDT(),
		TotalDue:        valueobject.ZeroBDT(),
		RemainingAmount: valueobject.ZeroBDT(),
	}

	selected := e.resolveSelection(req, result)
	if len(selected) == 0 {
		return nil, shared.NewDomainError("EMPTY_SELECTION", "At least one applicable month must be selected")
	}

	if req.ReceivedBy == "" {
		return nil, shared.NewDomainError("RECEIVER_REQUIRED", "Payment receiver is required")
	}
	if req.PaidAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	hasDiscount := req.DiscountType != DiscountNone && req.DiscountValue.IsPositive()
	if !hasDiscount && !req.PaidAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount must be positive")
	}

	// Per-month remaining due before this payment.
	remainingDue := make(map[uuid.UUID]valueobject.Money, len(selected))
	for _, m := range selected {
		remainingDue[m.MonthID] = req.Ledger.RemainingDue(m.MonthID, m.Fee)
	}

	discountPerMonth, err := e.distributeDiscount(req, selected, remainingDue, result)
	if err != nil {
		return nil, err
	}

	totalDiscount := valueobject.ZeroBDT()
	netDue := valueobject.ZeroBDT()
	for _, m := range selected {
		d := discountPerMonth[m.MonthID]
		totalDiscount = totalDiscount.MustAdd(d)
		netDue = netDue.MustAdd(remainingDue[m.MonthID].MustSubtract(d))
	}

	if hasDiscount {
		if req.Reference == "" {
			return nil, shared.NewDomainError("REFERENCE_REQUIRED", "A reference is required when a discount is applied")
		}
		if under, _ := req.PaidAmount.Round().LessThan(netDue.Round()); under {
			return nil, shared.NewDomainError("FULL_PAYMENT_REQUIRED",
				fmt.Sprintf("Discounted payments must settle all selected months in full: at least %s required, got %s", netDue.Round(), req.PaidAmount.Round()))
		}
	}

	// Greedy distribution in schedule order.
	remaining := req.PaidAmount
	fullySettled := true
	for _, m := range selected {
		discount := discountPerMonth[m.MonthID]
		dueAfterDiscount := remainingDue[m.MonthID].MustSubtract(discount)

		applied, err := remaining.Min(dueAfterDiscount)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
		}
		remaining = remaining.MustSubtract(applied)

		dueAfter := dueAfterDiscount.MustSubtract(applied)
		if dueAfter.IsPositive() {
			fullySettled = false
		}

		prev := req.Ledger.TotalsFor(m.MonthID)
		result.Allocations = append(result.Allocations, MonthAllocation{
			MonthID:           m.MonthID,
			CourseID:          m.CourseID,
			MonthName:         m.MonthName,
			CourseName:        m.CourseName,
			FeeAmount:         m.Fee,
			PreviouslyCovered: prev.Covered().Round(),
			DiscountApplied:   discount.Round(),
			PaidApplied:       applied.Round(),
			DueAfter:          dueAfter.Round(),
		})

		result.TotalPaid = result.TotalPaid.MustAdd(applied)
		result.TotalDue = result.TotalDue.MustAdd(dueAfter)
	}

	result.TotalPaid = result.TotalPaid.Round()
	result.TotalDiscount = totalDiscount.Round()
	result.TotalDue = result.TotalDue.Round()
	result.RemainingAmount = remaining.Round()
	result.FullySettled = fullySettled

	if result.RemainingAmount.IsPositive() {
		result.Warnings = append(result.Warnings, Warning{
			Code:    "UNALLOCATED_REMAINDER",
			Message: fmt.Sprintf("Paid amount exceeds the remaining due; %s was left unallocated", result.RemainingAmount),
		})
	}

	return result, nil
}

// resolveSelection maps the selected month IDs onto the schedule,
// preserving schedule order. Selected months that are not applicable
// are skipped with a warning; duplicates collapse.
func (e *AllocationEngine) resolveSelection(req AllocationRequest, result *AllocationResult) []ScheduledMonth {
	want := make(map[uuid.UUID]bool, len(req.SelectedMonthIDs))
	for _, id := range req.SelectedMonthIDs {
		want[id] = true
	}

	var selected []ScheduledMonth
	for _, m := range req.Schedule.Months() {
		if want[m.MonthID] {
			selected = append(selected, m)
			delete(want, m.MonthID)
		}
	}

	unknown := make([]uuid.UUID, 0, len(want))
	for id := range want {
		unknown = append(unknown, id)
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i].String() < unknown[j].String() })
	for _, id := range unknown {
		result.Warnings = append(result.Warnings, Warning{
			Code:    "MONTH_NOT_APPLICABLE",
			Message: fmt.Sprintf("Selected month %s is not in the student's fee schedule and was skipped", id),
		})
	}

	return selected
}

// distributeDiscount computes the per-month discount before any cash
// is applied. Fixed discounts are capped at the discountable total and
// split equally with per-month clamping; percentage discounts are
// clamped to [0, 100] and applied to each month's remaining due.
func (e *AllocationEngine) distributeDiscount(req AllocationRequest, selected []ScheduledMonth, remainingDue map[uuid.UUID]valueobject.Money, result *AllocationResult) (map[uuid.UUID]valueobject.Money, error) {
	perMonth := make(map[uuid.UUID]valueobject.Money, len(selected))
	for _, m := range selected {
		perMonth[m.MonthID] = valueobject.ZeroBDT()
	}

	if req.DiscountType == DiscountNone || !req.DiscountValue.IsPositive() {
		if req.DiscountValue.IsNegative() {
			return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
		}
		return perMonth, nil
	}

	targets := e.resolveDiscountTargets(req, selected, result)
	if len(targets) == 0 {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount has no applicable months")
	}

	switch req.DiscountType {
	case DiscountPercentage:
		pct := req.DiscountValue
		if pct.GreaterThan(decimal.NewFromInt(100)) {
			result.Warnings = append(result.Warnings, Warning{
				Code:    "PERCENTAGE_CLAMPED",
				Message: fmt.Sprintf("Discount percentage %s clamped to 100", pct),
			})
			pct = decimal.NewFromInt(100)
		}
		for _, m := range targets {
			perMonth[m.MonthID] = remainingDue[m.MonthID].CalculatePercentage(pct).Round()
		}

	case DiscountFixed:
		pool := valueobject.NewMoneyBDT(req.DiscountValue).Round()

		discountable := valueobject.ZeroBDT()
		for _, m := range targets {
			discountable = discountable.MustAdd(remainingDue[m.MonthID])
		}
		if over, _ := pool.GreaterThan(discountable); over {
			result.Warnings = append(result.Warnings, Warning{
				Code:    "DISCOUNT_LIMITED",
				Message: fmt.Sprintf("Discount %s exceeds the discountable total %s and was limited", pool.Round(), discountable.Round()),
			})
			pool = discountable.Round()
		}

		// Equal split with per-month clamping. Walking targets in
		// ascending remaining-due order lets clamped excess flow to
		// months that can still absorb it.
		ordered := make([]ScheduledMonth, len(targets))
		copy(ordered, targets)
		sort.SliceStable(ordered, func(i, j int) bool {
			less, _ := remainingDue[ordered[i].MonthID].LessThan(remainingDue[ordered[j].MonthID])
			return less
		})

		left := len(ordered)
		for _, m := range ordered {
			if pool.IsZero() {
				break
			}
			share, err := pool.Divide(decimal.NewFromInt(int64(left)))
			if err != nil {
				return nil, shared.NewDomainError("INVALID_DISCOUNT", err.Error())
			}
			share = share.Round()
			applied, _ := share.Min(remainingDue[m.MonthID])
			if capped, _ := applied.GreaterThan(pool); capped {
				applied = pool
			}
			perMonth[m.MonthID] = applied
			pool = pool.MustSubtract(applied)
			left--
		}

	default:
		return nil, shared.NewDomainError("INVALID_DISCOUNT", fmt.Sprintf("Unknown discount type %q", req.DiscountType))
	}

	return perMonth, nil
}

// resolveDiscountTargets returns the selected months the discount
// applies to, defaulting to all selected months.
func (e *AllocationEngine) resolveDiscountTargets(req AllocationRequest, selected []ScheduledMonth, result *AllocationResult) []ScheduledMonth {
	if len(req.DiscountMonthIDs) == 0 {
		return selected
	}

	want := make(map[uuid.UUID]bool, len(req.DiscountMonthIDs))
	for _, id := range req.DiscountMonthIDs {
		want[id] = true
	}

	var targets []ScheduledMonth
	for _, m := range selected {
		if want[m.MonthID] {
			targets = append(targets, m)
			delete(want, m.MonthID)
		}
	}

	unknown := make([]uuid.UUID, 0, len(want))
	for id := range want {
		unknown = append(unknown, id)
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i].String() < unknown[j].String() })
	for _, id := range unknown {
		result.Warnings = append(result.Warnings, Warning{
			Code:    "DISCOUNT_MONTH_NOT_SELECTED",
			Message: fmt.Sprintf("Discount month %s is not among the selected months and was skipped", id),
		})
	}

	return targets
}

// MonthDue is one outstanding month in a student's dues preview
type MonthDue struct {
	MonthID     uuid.UUID
	CourseID    uuid.UUID
	MonthName   string
	CourseName  string
	MonthNumber int
	FeeAmount   valueobject.Money
	Covered     valueobject.Money
	Due         valueobject.Money
}

// ComputeDues replays the ledger against a schedule and returns the
// remaining due for every scheduled month, in schedule order.
func ComputeDues(schedule Schedule, ledger Ledger) []MonthDue {
	months := schedule.Months()
	out := make([]MonthDue, 0, len(months))
	for _, m := range months {
		totals := ledger.TotalsFor(m.MonthID)
		out = append(out, MonthDue{
			MonthID:     m.MonthID,
			CourseID:    m.CourseID,
			MonthName:   m.MonthName,
			CourseName:  m.CourseName,
			MonthNumber: m.MonthNumber,
			FeeAmount:   m.Fee.Round(),
			Covered:     totals.Covered().Round(),
			Due:         ledger.RemainingDue(m.MonthID, m.Fee).Round(),
		})
	}
	return out
}
