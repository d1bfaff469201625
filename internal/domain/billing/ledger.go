package billing

import (
	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// MonthTotals aggregates everything paid and discounted against one
// month across a student's payment history.
type MonthTotals struct {
	Paid     valueobject.Money
	Discount valueobject.Money
}

// Covered returns paid plus discount
func (t MonthTotals) Covered() valueobject.Money {
	return t.Paid.MustAdd(t.Discount)
}

// Ledger is the per-month view of a student's payment history. It is
// a pure read model: reversal payments carry negative amounts and net
// out naturally during aggregation.
type Ledger struct {
	totals map[uuid.UUID]MonthTotals
}

// EmptyLedger returns a ledger with no payment history
func EmptyLedger() Ledger {
	return Ledger{totals: make(map[uuid.UUID]MonthTotals)}
}

// BuildLedger aggregates a student's payments into per-month totals
func BuildLedger(payments []Payment) Ledger {
	ledger := EmptyLedger()
	for i := range payments {
		for _, mp := range payments[i].MonthPayments {
			t, ok := ledger.totals[mp.MonthID]
			if !ok {
				t = MonthTotals{Paid: valueobject.ZeroBDT(), Discount: valueobject.ZeroBDT()}
			}
			t.Paid = t.Paid.MustAdd(mp.PaidAmount)
			t.Discount = t.Discount.MustAdd(mp.DiscountAmount)
			ledger.totals[mp.MonthID] = t
		}
	}
	return ledger
}

// TotalsFor returns the aggregated totals for a month. Months with no
// history return zero totals.
func (l Ledger) TotalsFor(monthID uuid.UUID) MonthTotals {
	if t, ok := l.totals[monthID]; ok {
		return t
	}
	return MonthTotals{Paid: valueobject.ZeroBDT(), Discount: valueobject.ZeroBDT()}
}

// RemainingDue returns how much of a month's fee is still owed after
// prior payments and discounts. Never negative.
func (l Ledger) RemainingDue(monthID uuid.UUID, fee valueobject.Money) valueobject.Money {
	t := l.TotalsFor(monthID)
	due := fee.MustSubtract(t.Covered())
	if due.IsNegative() {
		return valueobject.Zero(fee.Currency())
	}
	return due
}
