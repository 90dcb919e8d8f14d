package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PricingEntry is the resolved price guide data for one (support type,
// day type) pair. UnitPrice is per hour.
type PricingEntry struct {
	ItemNumber string
	UnitPrice  decimal.Decimal
	GSTCode    string
}

type priceKey struct {
	supportType string
	dayType     DayType
}

// PriceTable is a read-only lookup built from the NDIS price guide. A missing
// entry is an explicit error: silently pricing a support at $0 is a
// financial-correctness defect.
type PriceTable struct {
	entries map[priceKey]PricingEntry
}

func NewPriceTable() *PriceTable {
	return &PriceTable{entries: make(map[priceKey]PricingEntry)}
}

func (t *PriceTable) Add(supportType string, dayType DayType, entry PricingEntry) {
	t.entries[priceKey{supportType, dayType}] = entry
}

// Resolve looks up the support item and unit price for a support type on a
// given day type.
func (t *PriceTable) Resolve(supportType string, dayType DayType) (PricingEntry, error) {
	entry, ok := t.entries[priceKey{supportType, dayType}]
	if !ok {
		return PricingEntry{}, fmt.Errorf("support %q on %s: %w", supportType, dayType, ErrPriceNotFound)
	}
	return entry, nil
}
