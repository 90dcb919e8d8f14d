package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type dashboardData struct {
	TotalParticipants int `json:"total_participants"`
	TotalWorkers      int `json:"total_workers"`
	TotalShifts       int `json:"total_shifts"`
	TotalInvoices     int `json:"total_invoices"`

	PendingShifts  int    `json:"pending_shifts"`
	UnbilledShifts int    `json:"unbilled_shifts"` // completed, awaiting invoicing
	DraftInvoices  int    `json:"draft_invoices"`
	FlaggedLines   int    `json:"flagged_lines"` // capped overruns awaiting review
	OutstandingAmt string `json:"outstanding_amount"`

	RecentInvoices []map[string]any `json:"recent_invoices"`
}

// GetDashboard retrieves dashboard summary statistics
// @Summary      Get dashboard
// @Description  Get totals for participants, workers, shifts, and invoices, plus billing work outstanding.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response{data=dashboardData}
// @Router       /dashboard [get]
// @Security     BasicAuth
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	var d dashboardData

	DB.QueryRow("SELECT COUNT(*) FROM participants").Scan(&d.TotalParticipants)
	DB.QueryRow("SELECT COUNT(*) FROM workers").Scan(&d.TotalWorkers)
	DB.QueryRow("SELECT COUNT(*) FROM shifts").Scan(&d.TotalShifts)
	DB.QueryRow("SELECT COUNT(*) FROM invoices").Scan(&d.TotalInvoices)

	DB.QueryRow("SELECT COUNT(*) FROM shifts WHERE status = 'pending'").Scan(&d.PendingShifts)
	DB.QueryRow("SELECT COUNT(*) FROM shifts WHERE status = 'completed'").Scan(&d.UnbilledShifts)
	DB.QueryRow("SELECT COUNT(*) FROM invoices WHERE status = 'draft'").Scan(&d.DraftInvoices)
	DB.QueryRow("SELECT COUNT(*) FROM invoice_line_items WHERE flagged_for_review = 1").Scan(&d.FlaggedLines)

	// Outstanding = finalized + exported, summed as decimals to avoid float drift
	outstanding := decimal.Zero
	if totals, err := DB.Query(`SELECT total FROM invoices WHERE status IN ('finalized', 'exported')`); err == nil {
		defer totals.Close()
		for totals.Next() {
			var t decimal.Decimal
			if totals.Scan(&t) == nil {
				outstanding = outstanding.Add(t)
			}
		}
	}
	d.OutstandingAmt = outstanding.StringFixed(2)

	// Recent 5 invoices
	rows, err := DB.Query(`SELECT i.id, i.invoice_number, i.invoice_date, i.total, i.status, p.name
		FROM invoices i LEFT JOIN participants p ON i.participant_id = p.id
		ORDER BY i.created_at DESC LIMIT 5`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var id int
			var number int64
			var date, total, status string
			var participant *string
			rows.Scan(&id, &number, &date, &total, &status, &participant)
			d.RecentInvoices = append(d.RecentInvoices, map[string]any{
				"id":               id,
				"invoice_number":   number,
				"invoice_date":     date,
				"total":            total,
				"status":           status,
				"participant_name": participant,
			})
		}
	}
	if d.RecentInvoices == nil {
		d.RecentInvoices = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, d)
}
