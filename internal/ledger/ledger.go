// Package ledger holds the pure cash arithmetic shared by the service and
// the daily summary: shift totals, running balances and reconciliation.
package ledger

import "cashlog/backend/internal/domain"

// Totals is the aggregate of a set of entries belonging to one shift.
// POS and Direct are sub-splits of Collections by payment mode, not
// separately additive.
type Totals struct {
	Collections int64
	Refunds     int64
	POS         int64
	Direct      int64
	Expenses    int64
}

// Aggregate tallies entries into the shift totals. Amounts are stored as
// positive magnitudes; direction comes from IsRefund and EntryType. Refunds
// and expenses never count into Collections.
func Aggregate(entries []domain.CashEntry) Totals {
	var t Totals
	for _, e := range entries {
		switch {
		case e.EntryType == domain.EntryTypeExpense:
			t.Expenses += e.Amount
		case e.IsRefund:
			t.Refunds += e.Amount
		default:
			t.Collections += e.Amount
			switch e.PaymentMode {
			case domain.PaymentModePOS:
				t.POS += e.Amount
			case domain.PaymentModeDirect:
				t.Direct += e.Amount
			}
		}
	}
	return t
}

// SystemClosing computes the expected closing balance for a shift.
func SystemClosing(opening int64, t Totals) int64 {
	return opening + t.Collections - t.Refunds - t.Expenses
}

// Delta is the signed effect of a single entry on the running balance.
// Expenses and refunds subtract, everything else adds.
func Delta(e domain.CashEntry) int64 {
	if e.EntryType == domain.EntryTypeExpense || e.IsRefund {
		return -e.Amount
	}
	return e.Amount
}

// RunningBalance folds entries over the opening balance in order. Negative
// balances are permitted; a till shortfall is displayed, not rejected.
func RunningBalance(opening int64, entries []domain.CashEntry) int64 {
	bal := opening
	for _, e := range entries {
		bal += Delta(e)
	}
	return bal
}

// Reconcile compares the counted physical cash against the system balance.
// A zero difference is a match; anything else is a mismatch and the caller
// must insist on remarks.
func Reconcile(systemClosing, physicalCash int64) (difference int64, matchStatus string) {
	difference = physicalCash - systemClosing
	if difference == 0 {
		return difference, domain.MatchStatusMatched
	}
	return difference, domain.MatchStatusMismatched
}
