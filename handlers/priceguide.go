package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/auscare/ndis-portal/models"
	"github.com/go-chi/chi/v5"
)

const priceGuideSelectQuery = `SELECT id, support_type, day_type, item_number, unit_price, gst_code,
	created_at, updated_at FROM price_guide`

func scanPriceGuideEntry(scanner interface{ Scan(...any) error }) (models.PriceGuideEntry, error) {
	var e models.PriceGuideEntry
	err := scanner.Scan(&e.ID, &e.SupportType, &e.DayType, &e.ItemNumber, &e.UnitPrice, &e.GSTCode,
		&e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// ListPriceGuide lists all price guide entries
// @Summary      List price guide
// @Description  Get the NDIS price guide entries by support type and day type.
// @Tags         price-guide
// @Produce      json
// @Param        support_type  query     string  false  "Filter by support type"
// @Success      200           {object}  Response{data=[]models.PriceGuideEntry}
// @Router       /price-guide [get]
// @Security     BasicAuth
func ListPriceGuide(w http.ResponseWriter, r *http.Request) {
	query := priceGuideSelectQuery
	var conditions []string
	var args []any

	if st := r.URL.Query().Get("support_type"); st != "" {
		conditions = append(conditions, "support_type = ?")
		args = append(args, st)
	}
	if dt := r.URL.Query().Get("day_type"); dt != "" {
		conditions = append(conditions, "day_type = ?")
		args = append(args, dt)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY support_type, day_type"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var entries []models.PriceGuideEntry
	for rows.Next() {
		e, err := scanPriceGuideEntry(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []models.PriceGuideEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// CreatePriceGuideEntry creates a new price guide entry
// @Summary      Create price guide entry
// @Description  Add a price guide entry for a support type and day type.
// @Tags         price-guide
// @Accept       json
// @Produce      json
// @Param        entry  body      models.PriceGuideEntryInput  true  "Entry contents"
// @Success      201    {object}  Response{data=models.PriceGuideEntry}
// @Failure      400    {object}  Response{error=string}
// @Failure      409    {object}  Response{error=string}
// @Router       /price-guide [post]
// @Security     BasicAuth
func CreatePriceGuideEntry(w http.ResponseWriter, r *http.Request) {
	var input models.PriceGuideEntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int
	err := DB.QueryRow(`INSERT INTO price_guide (support_type, day_type, item_number, unit_price, gst_code)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		input.SupportType, input.DayType, input.ItemNumber, input.UnitPrice, input.GSTCode).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			writeError(w, http.StatusConflict, "an entry for this support type and day type already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	e, err := scanPriceGuideEntry(DB.QueryRow(priceGuideSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created entry: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// UpdatePriceGuideEntry updates an existing price guide entry
// @Summary      Update price guide entry
// @Description  Update a price guide entry, e.g. after an annual price guide release.
// @Tags         price-guide
// @Accept       json
// @Produce      json
// @Param        id     path      int                          true  "Entry ID"
// @Param        entry  body      models.PriceGuideEntryInput  true  "Updated entry contents"
// @Success      200    {object}  Response{data=models.PriceGuideEntry}
// @Failure      400    {object}  Response{error=string}
// @Failure      404    {object}  Response{error=string}
// @Router       /price-guide/{id} [put]
// @Security     BasicAuth
func UpdatePriceGuideEntry(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.PriceGuideEntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE price_guide SET support_type = ?, day_type = ?, item_number = ?,
		unit_price = ?, gst_code = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.SupportType, input.DayType, input.ItemNumber, input.UnitPrice, input.GSTCode, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "price guide entry not found")
		return
	}
	e, err := scanPriceGuideEntry(DB.QueryRow(priceGuideSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated entry: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeletePriceGuideEntry deletes a price guide entry
// @Summary      Delete price guide entry
// @Description  Remove a price guide entry.
// @Tags         price-guide
// @Produce      json
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /price-guide/{id} [delete]
// @Security     BasicAuth
func DeletePriceGuideEntry(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM price_guide WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "price guide entry not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
