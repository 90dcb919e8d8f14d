package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/auscare/ndis-portal/models"
	"github.com/shopspring/decimal"
)

const supportSelfCare = "Assistance With Self-Care Activities"

func testPriceTable() *PriceTable {
	table := NewPriceTable()
	for dayType, price := range map[DayType]string{
		DayTypeWeekday:       "67.56",
		DayTypeSaturday:      "95.07",
		DayTypeSunday:        "122.59",
		DayTypePublicHoliday: "148.66",
	} {
		table.Add(supportSelfCare, dayType, PricingEntry{
			ItemNumber: "01_011_0107_1_1",
			UnitPrice:  decimal.RequireFromString(price),
			GSTCode:    "P2",
		})
	}
	return table
}

func completedShift(id string, schedStart, schedEnd, actStart, actEnd time.Time) models.Shift {
	return models.Shift{
		ID:             id,
		ParticipantID:  "p-1",
		WorkerID:       "w-1",
		SupportType:    supportSelfCare,
		ScheduledStart: schedStart,
		ScheduledEnd:   schedEnd,
		ActualStart:    &actStart,
		ActualEnd:      &actEnd,
		Status:         models.ShiftCompleted,
	}
}

func TestBuildLineItemPublicHoliday(t *testing.T) {
	loc := sydney(t)
	cal := NewHolidayCalendar()
	cal.Add("NSW", time.Date(2025, 12, 25, 0, 0, 0, 0, loc))
	policy := DefaultPolicy(loc, "NSW")

	// Scheduled 09:00-11:00 on Christmas Day, ran 10 minutes over: within
	// tolerance, so the scheduled 120 minutes are billed at the holiday rate.
	shift := completedShift("s-1",
		time.Date(2025, 12, 25, 9, 0, 0, 0, loc),
		time.Date(2025, 12, 25, 11, 0, 0, 0, loc),
		time.Date(2025, 12, 25, 9, 0, 0, 0, loc),
		time.Date(2025, 12, 25, 11, 10, 0, 0, loc),
	)

	line, err := BuildLineItem(shift, testPriceTable(), cal, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.DayType != string(DayTypePublicHoliday) {
		t.Errorf("day type: got %s, want public_holiday", line.DayType)
	}
	if line.BillableMinutes != 120 {
		t.Errorf("billable minutes: got %d, want 120", line.BillableMinutes)
	}
	if line.ServiceDate != "2025-12-25" {
		t.Errorf("service date: got %s, want 2025-12-25", line.ServiceDate)
	}
	if !line.Quantity.Equal(decimal.NewFromInt(2)) {
		t.Errorf("quantity: got %s, want 2", line.Quantity)
	}
	// 2 hours × 148.66
	if !line.LineTotal.Equal(decimal.RequireFromString("297.32")) {
		t.Errorf("line total: got %s, want 297.32", line.LineTotal)
	}
	if line.FlaggedForReview {
		t.Error("line should not be flagged for review")
	}
}

func TestBuildLineItemCappedOverrun(t *testing.T) {
	loc := sydney(t)
	cal := NewHolidayCalendar()
	cal.RegisterRegion("NSW")
	policy := DefaultPolicy(loc, "NSW")

	// Scheduled 60 minutes, ran 100: beyond tolerance and the 90-minute cap.
	shift := completedShift("s-2",
		time.Date(2025, 11, 3, 9, 0, 0, 0, loc),
		time.Date(2025, 11, 3, 10, 0, 0, 0, loc),
		time.Date(2025, 11, 3, 9, 0, 0, 0, loc),
		time.Date(2025, 11, 3, 10, 40, 0, 0, loc),
	)

	line, err := BuildLineItem(shift, testPriceTable(), cal, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.BillableMinutes != 90 {
		t.Errorf("billable minutes: got %d, want 90", line.BillableMinutes)
	}
	if !line.FlaggedForReview {
		t.Error("capped overrun must be flagged for manual review")
	}
	// quantity stays unrounded decimal hours; the total rounds half-up
	want := decimal.NewFromInt(90).Div(decimal.NewFromInt(60)).Mul(decimal.RequireFromString("67.56")).Round(2)
	if !line.LineTotal.Equal(want) {
		t.Errorf("line total: got %s, want %s", line.LineTotal, want)
	}
}

func TestBuildLineItemMidnightCrossing(t *testing.T) {
	loc := sydney(t)
	cal := NewHolidayCalendar()
	cal.Add("NSW", time.Date(2025, 12, 25, 0, 0, 0, 0, loc))
	policy := DefaultPolicy(loc, "NSW")

	// Starts the evening before a public holiday and ends on it. The whole
	// shift classifies by its start date: a Wednesday, so weekday rate.
	shift := completedShift("s-3",
		time.Date(2025, 12, 24, 23, 0, 0, 0, loc),
		time.Date(2025, 12, 25, 1, 0, 0, 0, loc),
		time.Date(2025, 12, 24, 23, 0, 0, 0, loc),
		time.Date(2025, 12, 25, 1, 0, 0, 0, loc),
	)

	line, err := BuildLineItem(shift, testPriceTable(), cal, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.DayType != string(DayTypeWeekday) {
		t.Errorf("day type: got %s, want weekday", line.DayType)
	}
	if line.ServiceDate != "2025-12-24" {
		t.Errorf("service date: got %s, want 2025-12-24", line.ServiceDate)
	}
}

func TestBuildLineItemErrors(t *testing.T) {
	loc := sydney(t)
	cal := NewHolidayCalendar()
	cal.RegisterRegion("NSW")
	policy := DefaultPolicy(loc, "NSW")
	start := time.Date(2025, 11, 3, 9, 0, 0, 0, loc)
	end := time.Date(2025, 11, 3, 10, 0, 0, 0, loc)

	billed := completedShift("s-4", start, end, start, end)
	billed.Status = models.ShiftBilled
	if _, err := BuildLineItem(billed, testPriceTable(), cal, policy); !errors.Is(err, ErrShiftAlreadyBilled) {
		t.Errorf("billed shift: expected ErrShiftAlreadyBilled, got %v", err)
	}

	pending := completedShift("s-5", start, end, start, end)
	pending.Status = models.ShiftPending
	if _, err := BuildLineItem(pending, testPriceTable(), cal, policy); !errors.Is(err, ErrIncompleteShift) {
		t.Errorf("pending shift: expected ErrIncompleteShift, got %v", err)
	}

	unpriced := completedShift("s-6", start, end, start, end)
	unpriced.SupportType = "Community Nursing Care"
	if _, err := BuildLineItem(unpriced, testPriceTable(), cal, policy); !errors.Is(err, ErrPriceNotFound) {
		t.Errorf("unpriced shift: expected ErrPriceNotFound, got %v", err)
	}
}

func TestBuildLineItemsPartialSuccess(t *testing.T) {
	loc := sydney(t)
	cal := NewHolidayCalendar()
	cal.RegisterRegion("NSW")
	policy := DefaultPolicy(loc, "NSW")
	start := time.Date(2025, 11, 3, 9, 0, 0, 0, loc)
	end := time.Date(2025, 11, 3, 10, 0, 0, 0, loc)

	good := completedShift("s-good", start, end, start, end)
	bad := completedShift("s-bad", start, end, start, end)
	bad.SupportType = "Community Nursing Care" // not in the price table
	alsoGood := completedShift("s-also-good", start.Add(24*time.Hour), end.Add(24*time.Hour), start.Add(24*time.Hour), end.Add(24*time.Hour))

	lines, failures := BuildLineItems([]models.Shift{good, bad, alsoGood}, testPriceTable(), cal, policy)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].ShiftID != "s-bad" {
		t.Errorf("failure shift: got %s, want s-bad", failures[0].ShiftID)
	}
}
