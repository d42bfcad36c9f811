package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"cashlog/backend/internal/domain"
)

func sampleReport() DailyReport {
	physical := int64(251924)
	difference := int64(0)
	closedAt := time.Date(2026, 3, 14, 14, 5, 0, 0, time.UTC)
	return DailyReport{
		Summary: domain.DailySummary{
			Date:             "2026-03-14",
			Opening:          202424,
			TotalCollections: 58000,
			TotalPOS:         25000,
			TotalDirect:      18000,
			TotalRefunds:     8000,
			TotalExpenses:    500,
			Closing:          251924,
			Locked:           true,
		},
		Shifts: []domain.ShiftClosing{
			{
				ID:                   "shift-1",
				ShiftType:            domain.ShiftTypeMorning,
				Date:                 "2026-03-14",
				OpeningBalance:       202424,
				TotalCollections:     58000,
				TotalPOS:             25000,
				TotalDirect:          18000,
				TotalRefunds:         8000,
				TotalExpenses:        500,
				SystemClosingBalance: 251924,
				PhysicalCash:         &physical,
				Difference:           &difference,
				MatchStatus:          domain.MatchStatusMatched,
				Status:               domain.ShiftStatusApproved,
				OpenedBy:             "mohammed",
				ClosedBy:             "mohammed",
				ClosedAt:             &closedAt,
			},
		},
		Entries: []domain.CashEntry{
			{
				ID:          "entry-1",
				ShiftID:     "shift-1",
				Seq:         1,
				Particulars: "room 204 settlement",
				Amount:      15000,
				PaymentMode: domain.PaymentModeCash,
				EntryType:   domain.EntryTypeNormal,
				CreatedBy:   "mohammed",
				CreatedAt:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			},
			{
				ID:          "entry-2",
				ShiftID:     "shift-1",
				Seq:         2,
				Particulars: "guest refund room 110",
				Amount:      8000,
				IsRefund:    true,
				PaymentMode: domain.PaymentModeCash,
				EntryType:   domain.EntryTypeNormal,
				CreatedBy:   "mohammed",
				CreatedAt:   time.Date(2026, 3, 14, 10, 12, 0, 0, time.UTC),
			},
		},
	}
}

func TestRenderCSVContainsTotalsAndSignedAmounts(t *testing.T) {
	out, err := RenderCSV(sampleReport())
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}
	body := string(out)

	for _, want := range []string{
		"Daily Cash Report,2026-03-14",
		"Opening Balance,202424",
		"Total Collections,58000",
		"Closing Balance,251924",
		"Day Locked,true",
		"morning,approved,mohammed",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("csv missing %q:\n%s", want, body)
		}
	}
	if !strings.Contains(body, "-8000") {
		t.Fatalf("expected refund rendered as negative amount:\n%s", body)
	}
}

func TestRenderPDFProducesDocument(t *testing.T) {
	out, err := RenderPDF(sampleReport())
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", out[:min(8, len(out))])
	}
	if len(out) < 1000 {
		t.Fatalf("suspiciously small pdf: %d bytes", len(out))
	}
}
