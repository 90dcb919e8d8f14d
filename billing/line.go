package billing

import (
	"fmt"
	"strings"

	"github.com/auscare/ndis-portal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// BuildLineItem converts one completed shift into an invoice line item:
// classify the service date, reconcile billable minutes, resolve the price,
// then quantity = billable minutes / 60 (decimal hours, unrounded) and
// line_total = round(quantity × unit price, 2) half-up.
//
// The service date is the scheduled start's calendar date in the organization
// timezone, regardless of which duration figure ends up billed. A shift that
// crosses midnight into a different day type is not split: the whole shift is
// classified by its start date.
func BuildLineItem(shift models.Shift, prices *PriceTable, holidays *HolidayCalendar, p Policy) (models.InvoiceLineItem, error) {
	if shift.Status == models.ShiftBilled {
		return models.InvoiceLineItem{}, fmt.Errorf("shift %s: %w", shift.ID, ErrShiftAlreadyBilled)
	}
	if shift.Status != models.ShiftCompleted {
		return models.InvoiceLineItem{}, fmt.Errorf("shift %s has status %q: %w", shift.ID, shift.Status, ErrIncompleteShift)
	}

	serviceDay := shift.ScheduledStart.In(p.Timezone)
	dayType, err := holidays.Classify(serviceDay, p.Region)
	if err != nil {
		return models.InvoiceLineItem{}, fmt.Errorf("shift %s: %w", shift.ID, err)
	}

	rec, err := Reconcile(shift.ScheduledStart, shift.ScheduledEnd, shift.ActualStart, shift.ActualEnd, p)
	if err != nil {
		return models.InvoiceLineItem{}, fmt.Errorf("shift %s: %w", shift.ID, err)
	}

	price, err := prices.Resolve(shift.SupportType, dayType)
	if err != nil {
		return models.InvoiceLineItem{}, fmt.Errorf("shift %s: %w", shift.ID, err)
	}

	quantity := decimal.NewFromInt(int64(rec.BillableMinutes)).Div(sixty)
	return models.InvoiceLineItem{
		ID:               uuid.NewString(),
		ShiftID:          shift.ID,
		ItemNumber:       price.ItemNumber,
		Description:      fmt.Sprintf("%s (%s)", shift.SupportType, strings.ReplaceAll(string(dayType), "_", " ")),
		ServiceDate:      serviceDay.Format(dateLayout),
		SupportType:      shift.SupportType,
		DayType:          string(dayType),
		ScheduledMinutes: rec.ScheduledMinutes,
		ActualMinutes:    rec.ActualMinutes,
		BillableMinutes:  rec.BillableMinutes,
		Quantity:         quantity,
		UnitPrice:        price.UnitPrice,
		GSTCode:          price.GSTCode,
		LineTotal:        quantity.Mul(price.UnitPrice).Round(2),
		FlaggedForReview: rec.CapApplied,
	}, nil
}

// ShiftFailure reports why one shift could not be billed.
type ShiftFailure struct {
	ShiftID string `json:"shift_id"`
	Reason  string `json:"reason"`
}

// BuildLineItems bills a batch of shifts independently: one shift's bad data
// never blocks the rest. Partial success is the normal case and is reported
// as successes plus per-shift failures.
func BuildLineItems(shifts []models.Shift, prices *PriceTable, holidays *HolidayCalendar, p Policy) ([]models.InvoiceLineItem, []ShiftFailure) {
	var lines []models.InvoiceLineItem
	var failures []ShiftFailure
	for _, shift := range shifts {
		line, err := BuildLineItem(shift, prices, holidays, p)
		if err != nil {
			failures = append(failures, ShiftFailure{ShiftID: shift.ID, Reason: err.Error()})
			continue
		}
		lines = append(lines, line)
	}
	return lines, failures
}
