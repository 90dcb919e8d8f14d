package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GST codes used in NDIA bulk claims. P1 marks a taxable support, P2 a
// GST-free one. The code is reference data per support item, never inferred.
const (
	GSTTaxable = "P1"
	GSTFree    = "P2"
)

// PriceGuideEntry maps (support type, day type) to an NDIS support item
// number and hourly unit price, per the published NDIS price guide.
type PriceGuideEntry struct {
	ID          int             `json:"id"`
	SupportType string          `json:"support_type"`
	DayType     string          `json:"day_type"` // weekday, saturday, sunday, public_holiday
	ItemNumber  string          `json:"item_number"`
	UnitPrice   decimal.Decimal `json:"unit_price"` // per hour
	GSTCode     string          `json:"gst_code"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PriceGuideEntryInput is used for creating/updating price guide entries.
type PriceGuideEntryInput struct {
	SupportType string          `json:"support_type"`
	DayType     string          `json:"day_type"`
	ItemNumber  string          `json:"item_number"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	GSTCode     string          `json:"gst_code"`
}

func (p *PriceGuideEntryInput) Validate() string {
	if p.SupportType == "" {
		return "support_type is required"
	}
	switch p.DayType {
	case "weekday", "saturday", "sunday", "public_holiday":
	default:
		return "day_type must be one of: weekday, saturday, sunday, public_holiday"
	}
	if p.ItemNumber == "" {
		return "item_number is required"
	}
	if p.UnitPrice.IsNegative() {
		return "unit_price must be non-negative"
	}
	switch p.GSTCode {
	case "", GSTFree, GSTTaxable:
	default:
		return "gst_code must be one of: P1, P2"
	}
	if p.GSTCode == "" {
		p.GSTCode = GSTFree
	}
	return ""
}
