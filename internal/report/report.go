// Package report renders a day's cash position as CSV or PDF for
// filing alongside the physical cash book.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"cashlog/backend/internal/domain"
)

// DailyReport bundles everything the printed day sheet shows: the
// aggregated summary, each shift's reconciliation, and the raw entries.
type DailyReport struct {
	Summary domain.DailySummary
	Shifts  []domain.ShiftClosing
	Entries []domain.CashEntry
}

func RenderCSV(report DailyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Daily Cash Report", report.Summary.Date})
	w.Write([]string{""})
	w.Write([]string{"Opening Balance", strconv.FormatInt(report.Summary.Opening, 10)})
	w.Write([]string{"Total Collections", strconv.FormatInt(report.Summary.TotalCollections, 10)})
	w.Write([]string{"Total POS", strconv.FormatInt(report.Summary.TotalPOS, 10)})
	w.Write([]string{"Total Direct", strconv.FormatInt(report.Summary.TotalDirect, 10)})
	w.Write([]string{"Total Refunds", strconv.FormatInt(report.Summary.TotalRefunds, 10)})
	w.Write([]string{"Total Expenses", strconv.FormatInt(report.Summary.TotalExpenses, 10)})
	w.Write([]string{"Closing Balance", strconv.FormatInt(report.Summary.Closing, 10)})
	w.Write([]string{"Day Locked", fmt.Sprintf("%t", report.Summary.Locked)})
	w.Write([]string{""})

	w.Write([]string{"Shift", "Status", "Opened By", "Closed By", "Opening", "System Closing", "Physical Cash", "Difference", "Match"})
	for _, shift := range report.Shifts {
		w.Write([]string{
			shift.ShiftType,
			shift.Status,
			shift.OpenedBy,
			shift.ClosedBy,
			strconv.FormatInt(shift.OpeningBalance, 10),
			strconv.FormatInt(shift.SystemClosingBalance, 10),
			optionalAmount(shift.PhysicalCash),
			optionalAmount(shift.Difference),
			shift.MatchStatus,
		})
	}
	w.Write([]string{""})

	w.Write([]string{"#", "Shift", "Invoice", "Customer", "Particulars", "Mode", "Type", "Refund", "Amount", "Recorded By", "Time"})
	for i, entry := range report.Entries {
		w.Write([]string{
			strconv.Itoa(i + 1),
			entry.ShiftID,
			entry.InvoiceNo,
			entry.CustomerName,
			entry.Particulars,
			entry.PaymentMode,
			entry.EntryType,
			fmt.Sprintf("%t", entry.IsRefund),
			strconv.FormatInt(signedAmount(entry), 10),
			entry.CreatedBy,
			entry.CreatedAt.Format("15:04"),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func RenderPDF(report DailyReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Daily Cash Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 7, fmt.Sprintf("Date: %s", report.Summary.Date), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("02-Jan-2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Day Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Opening Balance: %d", report.Summary.Opening), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Closing Balance: %d", report.Summary.Closing), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Collections: %d (POS %d, Direct %d)", report.Summary.TotalCollections, report.Summary.TotalPOS, report.Summary.TotalDirect), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Refunds: %d   Expenses: %d", report.Summary.TotalRefunds, report.Summary.TotalExpenses), "RB", 1, "L", false, 0, "")
	lockLabel := "Day open for corrections"
	if report.Summary.Locked {
		lockLabel = "DAY LOCKED"
	}
	pdf.CellFormat(190, 7, lockLabel, "LRB", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Shifts", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(25, 7, "Shift", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Status", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Opening", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "System Close", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Counted", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Diff", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Match", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, shift := range report.Shifts {
		pdf.CellFormat(25, 6, shift.ShiftType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, shift.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.FormatInt(shift.OpeningBalance, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, strconv.FormatInt(shift.SystemClosingBalance, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, optionalAmount(shift.PhysicalCash), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, optionalAmount(shift.Difference), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, shift.MatchStatus, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Entries", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, "Particulars", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Mode", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "By", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i, entry := range report.Entries {
		particulars := entry.Particulars
		if len(particulars) > 38 {
			particulars = particulars[:35] + "..."
		}
		kind := entry.EntryType
		if entry.IsRefund {
			kind = "refund"
		}
		pdf.CellFormat(10, 6, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, particulars, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, entry.PaymentMode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, kind, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.FormatInt(signedAmount(entry), 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, entry.CreatedBy, "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func optionalAmount(val *int64) string {
	if val == nil {
		return ""
	}
	return strconv.FormatInt(*val, 10)
}

func signedAmount(entry domain.CashEntry) int64 {
	if entry.IsRefund || entry.EntryType == domain.EntryTypeExpense {
		return -entry.Amount
	}
	return entry.Amount
}
