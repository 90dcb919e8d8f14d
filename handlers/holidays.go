package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/auscare/ndis-portal/models"
	"github.com/go-chi/chi/v5"
)

// ListHolidays lists public holidays
// @Summary      List holidays
// @Description  Get gazetted public holidays, optionally filtered by region and year.
// @Tags         holidays
// @Produce      json
// @Param        region  query     string  false  "Filter by region"
// @Param        year    query     int     false  "Filter by year"
// @Success      200     {object}  Response{data=[]models.Holiday}
// @Router       /holidays [get]
// @Security     BasicAuth
func ListHolidays(w http.ResponseWriter, r *http.Request) {
	query := `SELECT id, region, date, name, created_at FROM holidays`
	var conditions []string
	var args []any

	if region := r.URL.Query().Get("region"); region != "" {
		conditions = append(conditions, "region = ?")
		args = append(args, region)
	}
	if year := r.URL.Query().Get("year"); year != "" {
		conditions = append(conditions, "date LIKE ?")
		args = append(args, year+"-%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var holidays []models.Holiday
	for rows.Next() {
		var h models.Holiday
		if err := rows.Scan(&h.ID, &h.Region, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		holidays = append(holidays, h)
	}
	if holidays == nil {
		holidays = []models.Holiday{}
	}
	writeJSON(w, http.StatusOK, holidays)
}

// CreateHoliday creates a public holiday
// @Summary      Create holiday
// @Description  Record a gazetted public holiday for a region.
// @Tags         holidays
// @Accept       json
// @Produce      json
// @Param        holiday  body      models.HolidayInput  true  "Holiday contents"
// @Success      201      {object}  Response{data=models.Holiday}
// @Failure      400      {object}  Response{error=string}
// @Failure      409      {object}  Response{error=string}
// @Router       /holidays [post]
// @Security     BasicAuth
func CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var input models.HolidayInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var h models.Holiday
	err := DB.QueryRow(`INSERT INTO holidays (region, date, name) VALUES (?, ?, ?)
		RETURNING id, region, date, name, created_at`,
		input.Region, input.Date, input.Name).Scan(&h.ID, &h.Region, &h.Date, &h.Name, &h.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			writeError(w, http.StatusConflict, "a holiday on this date already exists for the region")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

// DeleteHoliday deletes a public holiday
// @Summary      Delete holiday
// @Description  Remove a public holiday.
// @Tags         holidays
// @Produce      json
// @Param        id   path      int  true  "Holiday ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /holidays/{id} [delete]
// @Security     BasicAuth
func DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "holiday not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
