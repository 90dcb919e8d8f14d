package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/auscare/ndis-portal/billing"
	"github.com/auscare/ndis-portal/models"
	"github.com/go-chi/chi/v5"
)

const invoiceSelectQuery = `SELECT i.id, i.invoice_number, i.participant_id, i.invoice_date,
	i.period_start, i.period_end, i.due_date, i.subtotal, i.gst, i.total, i.status,
	i.created_at, i.updated_at, p.name, p.ndis_number
	FROM invoices i
	LEFT JOIN participants p ON i.participant_id = p.id`

func scanInvoice(scanner interface{ Scan(...any) error }) (models.Invoice, error) {
	var inv models.Invoice
	err := scanner.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ParticipantID, &inv.InvoiceDate,
		&inv.PeriodStart, &inv.PeriodEnd, &inv.DueDate, &inv.Subtotal, &inv.GST, &inv.Total,
		&inv.Status, &inv.CreatedAt, &inv.UpdatedAt, &inv.ParticipantName, &inv.ParticipantNDISNumber)
	return inv, err
}

func getInvoiceByID(id int) (models.Invoice, error) {
	return scanInvoice(DB.QueryRow(invoiceSelectQuery+" WHERE i.id = ?", id))
}

func getInvoiceLineItems(invoiceID int) ([]models.InvoiceLineItem, error) {
	rows, err := DB.Query(`SELECT id, invoice_id, shift_id, item_number, description, service_date,
		support_type, day_type, scheduled_minutes, actual_minutes, billable_minutes,
		quantity, unit_price, gst_code, line_total, flagged_for_review, created_at
		FROM invoice_line_items WHERE invoice_id = ?
		ORDER BY service_date, shift_id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.InvoiceLineItem
	for rows.Next() {
		var l models.InvoiceLineItem
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ShiftID, &l.ItemNumber, &l.Description,
			&l.ServiceDate, &l.SupportType, &l.DayType, &l.ScheduledMinutes, &l.ActualMinutes,
			&l.BillableMinutes, &l.Quantity, &l.UnitPrice, &l.GSTCode, &l.LineTotal,
			&l.FlaggedForReview, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListInvoices lists all invoices
// @Summary      List invoices
// @Description  Get a list of invoices with participant details.
// @Tags         invoices
// @Produce      json
// @Param        status          query     string  false  "Filter by status"
// @Param        participant_id  query     string  false  "Filter by participant"
// @Success      200             {object}  Response{data=[]models.Invoice}
// @Router       /invoices [get]
// @Security     BasicAuth
func ListInvoices(w http.ResponseWriter, r *http.Request) {
	query := invoiceSelectQuery
	var conditions []string
	var args []any

	if s := r.URL.Query().Get("status"); s != "" {
		conditions = append(conditions, "i.status = ?")
		args = append(args, s)
	}
	if pid := r.URL.Query().Get("participant_id"); pid != "" {
		conditions = append(conditions, "i.participant_id = ?")
		args = append(args, pid)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "i.invoice_date >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "i.invoice_date <= ?")
		args = append(args, to)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY i.invoice_number DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		invoices = append(invoices, inv)
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice retrieves a single invoice with its line items
// @Summary      Get invoice
// @Description  Get an invoice including its line items.
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response{error=string}
// @Router       /invoices/{id} [get]
// @Security     BasicAuth
func GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	inv, err := getInvoiceByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "invoice not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	inv.LineItems, err = getInvoiceLineItems(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// GenerateInvoiceInput requests invoice generation for a participant/period.
type GenerateInvoiceInput struct {
	ParticipantID string `json:"participant_id"`
	PeriodStart   string `json:"period_start"` // YYYY-MM-DD, inclusive
	PeriodEnd     string `json:"period_end"`   // YYYY-MM-DD, inclusive
	DueDate       string `json:"due_date"`     // optional, defaults to 14 days from today
}

func (g *GenerateInvoiceInput) Validate() string {
	if g.ParticipantID == "" {
		return "participant_id is required"
	}
	if _, err := time.Parse("2006-01-02", g.PeriodStart); err != nil {
		return "period_start must be in YYYY-MM-DD format"
	}
	if _, err := time.Parse("2006-01-02", g.PeriodEnd); err != nil {
		return "period_end must be in YYYY-MM-DD format"
	}
	if g.PeriodEnd < g.PeriodStart {
		return "period_end must not be before period_start"
	}
	if g.DueDate != "" {
		if _, err := time.Parse("2006-01-02", g.DueDate); err != nil {
			return "due_date must be in YYYY-MM-DD format"
		}
	}
	return ""
}

// GenerateInvoiceResult reports the created invoice and any shifts that could
// not be billed. Failures never block the billable shifts.
type GenerateInvoiceResult struct {
	Invoice  models.Invoice         `json:"invoice"`
	Failures []billing.ShiftFailure `json:"failures"`
}

// GenerateInvoice creates a draft invoice from completed shifts
// @Summary      Generate invoice
// @Description  Convert a participant's completed shifts in the period into a draft invoice. Shifts that cannot be billed are reported as failures without blocking the rest.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateInvoiceInput  true  "Generation request"
// @Success      201      {object}  Response{data=GenerateInvoiceResult}
// @Failure      400      {object}  Response{error=string}
// @Failure      422      {object}  Response{error=string}
// @Router       /invoices/generate [post]
// @Security     BasicAuth
func GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	var input GenerateInvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	org, err := getOrganization()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	tz, err := time.LoadLocation(org.Timezone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "organization timezone: "+err.Error())
		return
	}
	policy := billing.DefaultPolicy(tz, org.Region)

	prices, err := loadPriceTable()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	holidays, err := loadHolidayCalendar()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rows, err := DB.Query(shiftSelectQuery+" WHERE s.participant_id = ? AND s.status = 'completed'",
		input.ParticipantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()
	var shifts []models.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		shifts = append(shifts, s)
	}

	lines, failures := billing.BuildLineItems(shifts, prices, holidays, policy)
	if failures == nil {
		failures = []billing.ShiftFailure{}
	}

	today := time.Now().In(tz).Format("2006-01-02")
	dueDate := input.DueDate
	if dueDate == "" {
		dueDate = time.Now().In(tz).AddDate(0, 0, 14).Format("2006-01-02")
	}
	params := billing.InvoiceParams{
		ParticipantID: input.ParticipantID,
		PeriodStart:   input.PeriodStart,
		PeriodEnd:     input.PeriodEnd,
		InvoiceDate:   today,
		DueDate:       dueDate,
		GSTRate:       org.GSTRate,
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	inv, err := billing.BuildInvoice(params, lines, invoiceNumberAllocator(tx))
	if err != nil {
		if errors.Is(err, billing.ErrEmptyPeriod) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	var invoiceID int
	err = tx.QueryRow(`INSERT INTO invoices (invoice_number, participant_id, invoice_date,
		period_start, period_end, due_date, subtotal, gst, total, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		inv.InvoiceNumber, inv.ParticipantID, inv.InvoiceDate, inv.PeriodStart, inv.PeriodEnd,
		inv.DueDate, inv.Subtotal, inv.GST, inv.Total, inv.Status).Scan(&invoiceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, line := range inv.LineItems {
		if _, err := tx.Exec(`INSERT INTO invoice_line_items (id, invoice_id, shift_id, item_number,
			description, service_date, support_type, day_type, scheduled_minutes, actual_minutes,
			billable_minutes, quantity, unit_price, gst_code, line_total, flagged_for_review)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			line.ID, invoiceID, line.ShiftID, line.ItemNumber, line.Description, line.ServiceDate,
			line.SupportType, line.DayType, line.ScheduledMinutes, line.ActualMinutes,
			line.BillableMinutes, line.Quantity, line.UnitPrice, line.GSTCode, line.LineTotal,
			line.FlaggedForReview); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if _, err := tx.Exec(`UPDATE shifts SET status = 'billed', updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`, line.ShiftID); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	created, err := getInvoiceByID(invoiceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created invoice: "+err.Error())
		return
	}
	created.LineItems, _ = getInvoiceLineItems(invoiceID)
	writeJSON(w, http.StatusCreated, GenerateInvoiceResult{Invoice: created, Failures: failures})
}

// FinalizeInvoice locks a draft invoice
// @Summary      Finalize invoice
// @Description  Transition a draft invoice to finalized, locking it against any further change.
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /invoices/{id}/finalize [post]
// @Security     BasicAuth
func FinalizeInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	// Single conditional UPDATE: the draft check and the transition are one
	// atomic statement, so concurrent finalize calls cannot both succeed.
	res, err := DB.Exec(`UPDATE invoices SET status = 'finalized', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'draft'`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		if err := DB.QueryRow("SELECT status FROM invoices WHERE id = ?", id).Scan(&status); err == nil {
			writeError(w, http.StatusConflict, "invoice is "+status+", only draft invoices can be finalized")
			return
		}
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	inv, err := getInvoiceByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// VoidInvoice voids a finalized or exported invoice
// @Summary      Void invoice
// @Description  Void an invoice as a compensating entry. The invoice number is never reused.
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /invoices/{id}/void [post]
// @Security     BasicAuth
func VoidInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec(`UPDATE invoices SET status = 'voided', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status IN ('finalized', 'exported')`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		if err := DB.QueryRow("SELECT status FROM invoices WHERE id = ?", id).Scan(&status); err == nil {
			writeError(w, http.StatusConflict, "invoice is "+status+", only finalized or exported invoices can be voided")
			return
		}
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	inv, err := getInvoiceByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// DeleteInvoice deletes a draft invoice
// @Summary      Delete draft invoice
// @Description  Remove a draft invoice and release its shifts back to completed. Finalized invoices can only be voided.
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /invoices/{id} [delete]
// @Security     BasicAuth
func DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE shifts SET status = 'completed', updated_at = CURRENT_TIMESTAMP
		WHERE id IN (SELECT shift_id FROM invoice_line_items WHERE invoice_id = ?)
		AND (SELECT status FROM invoices WHERE id = ?) = 'draft'`, id, id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	res, err := tx.Exec("DELETE FROM invoices WHERE id = ? AND status = 'draft'", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		if err := tx.QueryRow("SELECT status FROM invoices WHERE id = ?", id).Scan(&status); err == nil {
			writeError(w, http.StatusConflict, "only draft invoices can be deleted; use void instead")
			return
		}
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
