package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses. Draft invoices may be regenerated or deleted; a finalized
// invoice is immutable and may only be voided, never edited or removed.
const (
	InvoiceDraft     = "draft"
	InvoiceFinalized = "finalized"
	InvoiceExported  = "exported"
	InvoiceVoided    = "voided"
)

// Invoice aggregates billed line items for one participant over a period.
type Invoice struct {
	ID            int             `json:"id"`
	InvoiceNumber int64           `json:"invoice_number"`
	ParticipantID string          `json:"participant_id"`
	InvoiceDate   string          `json:"invoice_date"` // YYYY-MM-DD
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	DueDate       string          `json:"due_date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	GST           decimal.Decimal `json:"gst"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	// Computed fields
	ParticipantName       *string           `json:"participant_name,omitempty"`
	ParticipantNDISNumber *string           `json:"participant_ndis_number,omitempty"`
	LineItems             []InvoiceLineItem `json:"line_items,omitempty"`
}

// Reference is the human-facing invoice reference used on documents and in
// PACE claim rows.
func (i *Invoice) Reference() string {
	return fmt.Sprintf("INV-%05d", i.InvoiceNumber)
}

// InvoiceLineItem is one billed shift on an invoice.
type InvoiceLineItem struct {
	ID               string          `json:"id"`
	InvoiceID        int             `json:"invoice_id"`
	ShiftID          string          `json:"shift_id"`
	ItemNumber       string          `json:"item_number"`
	Description      string          `json:"description"`
	ServiceDate      string          `json:"service_date"` // YYYY-MM-DD
	SupportType      string          `json:"support_type"`
	DayType          string          `json:"day_type"`
	ScheduledMinutes int             `json:"scheduled_minutes"`
	ActualMinutes    int             `json:"actual_minutes"`
	BillableMinutes  int             `json:"billable_minutes"`
	Quantity         decimal.Decimal `json:"quantity"` // decimal hours, unrounded
	UnitPrice        decimal.Decimal `json:"unit_price"`
	GSTCode          string          `json:"gst_code"`
	LineTotal        decimal.Decimal `json:"line_total"`
	FlaggedForReview bool            `json:"flagged_for_review"`
	CreatedAt        time.Time       `json:"created_at"`
}
