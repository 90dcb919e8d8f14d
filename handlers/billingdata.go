package handlers

import (
	"database/sql"
	"time"

	"github.com/auscare/ndis-portal/billing"
)

// loadPriceTable builds the core's price lookup from the price_guide table.
func loadPriceTable() (*billing.PriceTable, error) {
	rows, err := DB.Query(`SELECT support_type, day_type, item_number, unit_price, gst_code FROM price_guide`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := billing.NewPriceTable()
	for rows.Next() {
		var supportType, dayType string
		var entry billing.PricingEntry
		if err := rows.Scan(&supportType, &dayType, &entry.ItemNumber, &entry.UnitPrice, &entry.GSTCode); err != nil {
			return nil, err
		}
		table.Add(supportType, billing.DayType(dayType), entry)
	}
	return table, rows.Err()
}

// loadHolidayCalendar builds the core's holiday lookup from the holidays
// table. A region counts as registered only if it has holidays loaded, so
// billing against an unconfigured region fails loudly instead of quietly
// treating every day as a non-holiday.
func loadHolidayCalendar() (*billing.HolidayCalendar, error) {
	rows, err := DB.Query(`SELECT region, date FROM holidays`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cal := billing.NewHolidayCalendar()
	for rows.Next() {
		var region, date string
		if err := rows.Scan(&region, &date); err != nil {
			return nil, err
		}
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, err
		}
		cal.Add(region, day)
	}
	return cal, rows.Err()
}

// invoiceNumberAllocator returns a billing.NumberAllocator backed by the
// invoice_sequences row, incremented inside the caller's transaction so
// concurrent invoice creation serializes on the row and numbers are never
// reused.
func invoiceNumberAllocator(tx *sql.Tx) billing.NumberAllocator {
	return func() (int64, error) {
		var next int64
		err := tx.QueryRow(`UPDATE invoice_sequences SET next_number = next_number + 1
			WHERE organization_id = 1 RETURNING next_number - 1`).Scan(&next)
		return next, err
	}
}
