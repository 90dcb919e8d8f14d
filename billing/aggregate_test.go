package billing

import (
	"errors"
	"testing"

	"github.com/auscare/ndis-portal/models"
	"github.com/shopspring/decimal"
)

func testAllocator(start int64) NumberAllocator {
	next := start
	return func() (int64, error) {
		n := next
		next++
		return n, nil
	}
}

func line(shiftID, serviceDate, total string) models.InvoiceLineItem {
	return models.InvoiceLineItem{
		ID:          "li-" + shiftID,
		ShiftID:     shiftID,
		ServiceDate: serviceDate,
		LineTotal:   decimal.RequireFromString(total),
	}
}

func TestBuildInvoiceTotals(t *testing.T) {
	params := InvoiceParams{
		ParticipantID: "p-1",
		PeriodStart:   "2025-11-01",
		PeriodEnd:     "2025-11-30",
		InvoiceDate:   "2025-12-01",
		DueDate:       "2025-12-15",
		GSTRate:       decimal.RequireFromString("0.10"),
	}
	lines := []models.InvoiceLineItem{
		line("s-1", "2025-11-03", "110.00"),
		line("s-2", "2025-11-10", "55.00"),
	}

	inv, err := BuildInvoice(params, lines, testAllocator(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inv.Subtotal.Equal(decimal.RequireFromString("165.00")) {
		t.Errorf("subtotal: got %s, want 165.00", inv.Subtotal)
	}
	if !inv.GST.Equal(decimal.RequireFromString("16.50")) {
		t.Errorf("gst: got %s, want 16.50", inv.GST)
	}
	if !inv.Total.Equal(decimal.RequireFromString("181.50")) {
		t.Errorf("total: got %s, want 181.50", inv.Total)
	}
	if inv.InvoiceNumber != 1 {
		t.Errorf("invoice number: got %d, want 1", inv.InvoiceNumber)
	}
	if inv.Status != models.InvoiceDraft {
		t.Errorf("status: got %s, want draft", inv.Status)
	}
}

func TestBuildInvoiceFiltersAndSorts(t *testing.T) {
	params := InvoiceParams{
		ParticipantID: "p-1",
		PeriodStart:   "2025-11-01",
		PeriodEnd:     "2025-11-30",
		GSTRate:       decimal.RequireFromString("0.10"),
	}
	lines := []models.InvoiceLineItem{
		line("s-late", "2025-12-01", "10.00"),  // after period, excluded
		line("s-b", "2025-11-10", "20.00"),     // same date as s-a, ties break on shift id
		line("s-a", "2025-11-10", "30.00"),     //
		line("s-first", "2025-11-01", "40.00"), // period boundaries are inclusive
		line("s-last", "2025-11-30", "50.00"),  //
		line("s-early", "2025-10-31", "60.00"), // before period, excluded
	}

	inv, err := BuildInvoice(params, lines, testAllocator(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantOrder := []string{"s-first", "s-a", "s-b", "s-last"}
	if len(inv.LineItems) != len(wantOrder) {
		t.Fatalf("expected %d lines, got %d", len(wantOrder), len(inv.LineItems))
	}
	for i, want := range wantOrder {
		if inv.LineItems[i].ShiftID != want {
			t.Errorf("line %d: got %s, want %s", i, inv.LineItems[i].ShiftID, want)
		}
	}
	if !inv.Subtotal.Equal(decimal.RequireFromString("140.00")) {
		t.Errorf("subtotal: got %s, want 140.00", inv.Subtotal)
	}
}

func TestBuildInvoiceEmptyPeriod(t *testing.T) {
	params := InvoiceParams{
		ParticipantID: "p-1",
		PeriodStart:   "2025-11-01",
		PeriodEnd:     "2025-11-30",
		GSTRate:       decimal.RequireFromString("0.10"),
	}
	lines := []models.InvoiceLineItem{
		line("s-1", "2025-10-15", "110.00"),
	}

	_, err := BuildInvoice(params, lines, testAllocator(1))
	if !errors.Is(err, ErrEmptyPeriod) {
		t.Fatalf("expected ErrEmptyPeriod, got %v", err)
	}
}

func TestBuildInvoiceSequenceAdvances(t *testing.T) {
	alloc := testAllocator(41)
	params := InvoiceParams{
		ParticipantID: "p-1",
		PeriodStart:   "2025-11-01",
		PeriodEnd:     "2025-11-30",
		GSTRate:       decimal.RequireFromString("0.10"),
	}
	lines := []models.InvoiceLineItem{line("s-1", "2025-11-03", "110.00")}

	first, err := BuildInvoice(params, lines, alloc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildInvoice(params, lines, alloc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.InvoiceNumber != 41 || second.InvoiceNumber != 42 {
		t.Errorf("invoice numbers: got %d, %d, want 41, 42", first.InvoiceNumber, second.InvoiceNumber)
	}
}
