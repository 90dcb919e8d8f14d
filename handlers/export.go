package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/auscare/ndis-portal/billing"
	"github.com/auscare/ndis-portal/models"
)

// ExportPACE exports finalized invoices as a PACE bulk-claim CSV
// @Summary      Export PACE claims
// @Description  Serialize finalized invoices into the NDIA myplace PACE bulk-claim CSV and mark them exported. Fails whole-batch if any invoice is not finalized or the organization has no registration number.
// @Tags         export
// @Produce      text/csv
// @Param        ids  query     string  true  "Comma-separated invoice IDs"
// @Success      200  {string}  string  "CSV content"
// @Failure      400  {object}  Response{error=string}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /export/pace [get]
// @Security     BasicAuth
func ExportPACE(w http.ResponseWriter, r *http.Request) {
	var ids []int
	for _, raw := range strings.Split(r.URL.Query().Get("ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ids must be a comma-separated list of invoice IDs")
			return
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "ids is required")
		return
	}

	org, err := getOrganization()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var invoices []models.Invoice
	for _, id := range ids {
		inv, err := getInvoiceByID(id)
		if err != nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("invoice %d not found", id))
			return
		}
		inv.LineItems, err = getInvoiceLineItems(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		invoices = append(invoices, inv)
	}

	csvText, err := billing.ExportPACE(invoices, org)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvoiceNotFinalized), errors.Is(err, billing.ErrMissingRegistration):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// Mark the batch exported only after serialization succeeded.
	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()
	for _, inv := range invoices {
		if _, err := tx.Exec(`UPDATE invoices SET status = 'exported', updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND status = 'finalized'`, inv.ID); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("pace-claims-%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csvText))
}
