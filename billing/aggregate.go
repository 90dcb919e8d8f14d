package billing

import (
	"fmt"
	"sort"

	"github.com/auscare/ndis-portal/models"
	"github.com/shopspring/decimal"
)

// InvoiceParams describes the invoice to build. Dates are YYYY-MM-DD strings
// in the organization timezone.
type InvoiceParams struct {
	ParticipantID string
	PeriodStart   string
	PeriodEnd     string
	InvoiceDate   string
	DueDate       string
	GSTRate       decimal.Decimal
}

// NumberAllocator returns the next invoice number in the organization's
// monotonic sequence. The implementation owns atomicity (typically a
// transactional increment in the persistence layer); numbers are never
// reused, even for invoices that are later voided.
type NumberAllocator func() (int64, error)

// BuildInvoice aggregates a participant's line items into a draft invoice.
// Lines are filtered to service dates within [PeriodStart, PeriodEnd]
// inclusive and sorted by service date, tie-broken by shift ID so output is
// deterministic. Subtotal is the exact sum of line totals, GST is
// round(subtotal × rate, 2), total = subtotal + GST.
//
// An empty period is an error: a zero-value invoice is never created
// implicitly.
func BuildInvoice(params InvoiceParams, lines []models.InvoiceLineItem, nextNumber NumberAllocator) (models.Invoice, error) {
	var eligible []models.InvoiceLineItem
	for _, line := range lines {
		if line.ServiceDate >= params.PeriodStart && line.ServiceDate <= params.PeriodEnd {
			eligible = append(eligible, line)
		}
	}
	if len(eligible) == 0 {
		return models.Invoice{}, fmt.Errorf("participant %s, %s to %s: %w",
			params.ParticipantID, params.PeriodStart, params.PeriodEnd, ErrEmptyPeriod)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].ServiceDate != eligible[j].ServiceDate {
			return eligible[i].ServiceDate < eligible[j].ServiceDate
		}
		return eligible[i].ShiftID < eligible[j].ShiftID
	})

	subtotal := decimal.Zero
	for _, line := range eligible {
		subtotal = subtotal.Add(line.LineTotal)
	}
	gst := subtotal.Mul(params.GSTRate).Round(2)

	number, err := nextNumber()
	if err != nil {
		return models.Invoice{}, fmt.Errorf("allocating invoice number: %w", err)
	}

	return models.Invoice{
		InvoiceNumber: number,
		ParticipantID: params.ParticipantID,
		InvoiceDate:   params.InvoiceDate,
		PeriodStart:   params.PeriodStart,
		PeriodEnd:     params.PeriodEnd,
		DueDate:       params.DueDate,
		Subtotal:      subtotal,
		GST:           gst,
		Total:         subtotal.Add(gst),
		Status:        models.InvoiceDraft,
		LineItems:     eligible,
	}, nil
}
