package ledger

import (
	"testing"

	"cashlog/backend/internal/domain"
)

func sampleEntries() []domain.CashEntry {
	return []domain.CashEntry{
		{Amount: 15000, PaymentMode: domain.PaymentModeCash, EntryType: domain.EntryTypeNormal},
		{Amount: 25000, PaymentMode: domain.PaymentModePOS, EntryType: domain.EntryTypeNormal},
		{Amount: 8000, PaymentMode: domain.PaymentModeCash, EntryType: domain.EntryTypeNormal, IsRefund: true},
		{Amount: 500, PaymentMode: domain.PaymentModeCash, EntryType: domain.EntryTypeExpense},
		{Amount: 18000, PaymentMode: domain.PaymentModeDirect, EntryType: domain.EntryTypeNormal},
	}
}

func TestAggregateSampleShift(t *testing.T) {
	got := Aggregate(sampleEntries())
	want := Totals{Collections: 58000, Refunds: 8000, POS: 25000, Direct: 18000, Expenses: 500}
	if got != want {
		t.Fatalf("Aggregate = %+v, want %+v", got, want)
	}
	if closing := SystemClosing(202424, got); closing != 251924 {
		t.Fatalf("SystemClosing = %d, want 251924", closing)
	}
}

func TestRunningBalanceAgreesWithAggregate(t *testing.T) {
	const opening = 202424
	entries := sampleEntries()
	totals := Aggregate(entries)
	fromFold := RunningBalance(opening, entries)
	fromTotals := SystemClosing(opening, totals)
	if fromFold != fromTotals {
		t.Fatalf("running balance %d disagrees with aggregate closing %d", fromFold, fromTotals)
	}
}

func TestRunningBalanceEmpty(t *testing.T) {
	if got := RunningBalance(5000, nil); got != 5000 {
		t.Fatalf("RunningBalance with no entries = %d, want opening", got)
	}
}

func TestRunningBalanceMayGoNegative(t *testing.T) {
	entries := []domain.CashEntry{
		{Amount: 700, PaymentMode: domain.PaymentModeCash, EntryType: domain.EntryTypeExpense},
	}
	if got := RunningBalance(500, entries); got != -200 {
		t.Fatalf("RunningBalance = %d, want -200", got)
	}
}

func TestReconcile(t *testing.T) {
	diff, status := Reconcile(247000, 246500)
	if diff != -500 || status != domain.MatchStatusMismatched {
		t.Fatalf("Reconcile = (%d, %s), want (-500, mismatched)", diff, status)
	}
	diff, status = Reconcile(251924, 251924)
	if diff != 0 || status != domain.MatchStatusMatched {
		t.Fatalf("Reconcile = (%d, %s), want (0, matched)", diff, status)
	}
}

func TestDelta(t *testing.T) {
	cases := []struct {
		name  string
		entry domain.CashEntry
		want  int64
	}{
		{"cash collection", domain.CashEntry{Amount: 100, PaymentMode: domain.PaymentModeCash, EntryType: domain.EntryTypeNormal}, 100},
		{"pos collection", domain.CashEntry{Amount: 100, PaymentMode: domain.PaymentModePOS, EntryType: domain.EntryTypeNormal}, 100},
		{"refund", domain.CashEntry{Amount: 100, PaymentMode: domain.PaymentModeCash, EntryType: domain.EntryTypeNormal, IsRefund: true}, -100},
		{"expense", domain.CashEntry{Amount: 100, PaymentMode: domain.PaymentModeCash, EntryType: domain.EntryTypeExpense}, -100},
	}
	for _, tc := range cases {
		if got := Delta(tc.entry); got != tc.want {
			t.Errorf("%s: Delta = %d, want %d", tc.name, got, tc.want)
		}
	}
}
