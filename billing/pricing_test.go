package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestResolvePrice(t *testing.T) {
	table := NewPriceTable()
	table.Add("Assistance With Self-Care Activities", DayTypeWeekday, PricingEntry{
		ItemNumber: "01_011_0107_1_1",
		UnitPrice:  decimal.RequireFromString("67.56"),
		GSTCode:    "P2",
	})
	table.Add("Assistance With Self-Care Activities", DayTypePublicHoliday, PricingEntry{
		ItemNumber: "01_021_0107_1_1",
		UnitPrice:  decimal.RequireFromString("148.66"),
		GSTCode:    "P2",
	})

	entry, err := table.Resolve("Assistance With Self-Care Activities", DayTypePublicHoliday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ItemNumber != "01_021_0107_1_1" {
		t.Errorf("item number: got %s, want 01_021_0107_1_1", entry.ItemNumber)
	}
	if !entry.UnitPrice.Equal(decimal.RequireFromString("148.66")) {
		t.Errorf("unit price: got %s, want 148.66", entry.UnitPrice)
	}

	// A missing entry must stop billing, never default to $0.
	_, err = table.Resolve("Assistance With Self-Care Activities", DayTypeSaturday)
	if !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
	_, err = table.Resolve("Community Nursing Care", DayTypeWeekday)
	if !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
}
