package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/auscare/ndis-portal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const shiftSelectQuery = `SELECT s.id, s.participant_id, s.worker_id, s.support_type,
	s.scheduled_start, s.scheduled_end, s.actual_start, s.actual_end, s.status, s.notes,
	s.created_at, s.updated_at, p.name, w.name
	FROM shifts s
	LEFT JOIN participants p ON s.participant_id = p.id
	LEFT JOIN workers w ON s.worker_id = w.id`

func scanShift(scanner interface{ Scan(...any) error }) (models.Shift, error) {
	var s models.Shift
	var actualStart, actualEnd sql.NullTime
	err := scanner.Scan(&s.ID, &s.ParticipantID, &s.WorkerID, &s.SupportType,
		&s.ScheduledStart, &s.ScheduledEnd, &actualStart, &actualEnd, &s.Status, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt, &s.ParticipantName, &s.WorkerName)
	if err != nil {
		return s, err
	}
	if actualStart.Valid {
		s.ActualStart = &actualStart.Time
	}
	if actualEnd.Valid {
		s.ActualEnd = &actualEnd.Time
	}
	return s, nil
}

func getShiftByID(id string) (models.Shift, error) {
	return scanShift(DB.QueryRow(shiftSelectQuery+" WHERE s.id = ?", id))
}

// ListShifts lists all shifts
// @Summary      List shifts
// @Description  Get a list of shifts with participant and worker names.
// @Tags         shifts
// @Produce      json
// @Param        participant_id  query     string  false  "Filter by participant"
// @Param        worker_id       query     string  false  "Filter by worker"
// @Param        status          query     string  false  "Filter by status"
// @Success      200             {object}  Response{data=[]models.Shift}
// @Router       /shifts [get]
// @Security     BasicAuth
func ListShifts(w http.ResponseWriter, r *http.Request) {
	query := shiftSelectQuery
	var conditions []string
	var args []any

	if pid := r.URL.Query().Get("participant_id"); pid != "" {
		conditions = append(conditions, "s.participant_id = ?")
		args = append(args, pid)
	}
	if wid := r.URL.Query().Get("worker_id"); wid != "" {
		conditions = append(conditions, "s.worker_id = ?")
		args = append(args, wid)
	}
	if s := r.URL.Query().Get("status"); s != "" {
		conditions = append(conditions, "s.status = ?")
		args = append(args, s)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "s.scheduled_start >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "s.scheduled_start <= ?")
		args = append(args, to)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.scheduled_start DESC"

	rows, err := DB.Query(query, args...)
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
	if shifts == nil {
		shifts = []models.Shift{}
	}
	writeJSON(w, http.StatusOK, shifts)
}

// GetShift retrieves a single shift by ID
// @Summary      Get shift
// @Description  Get details of a specific shift.
// @Tags         shifts
// @Produce      json
// @Param        id   path      string  true  "Shift ID"
// @Success      200  {object}  Response{data=models.Shift}
// @Failure      404  {object}  Response{error=string}
// @Router       /shifts/{id} [get]
// @Security     BasicAuth
func GetShift(w http.ResponseWriter, r *http.Request) {
	s, err := getShiftByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "shift not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// CreateShift creates a new shift
// @Summary      Create shift
// @Description  Schedule a new shift for a participant and worker.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        shift  body      models.ShiftInput  true  "Shift contents"
// @Success      201    {object}  Response{data=models.Shift}
// @Failure      400    {object}  Response{error=string}
// @Router       /shifts [post]
// @Security     BasicAuth
func CreateShift(w http.ResponseWriter, r *http.Request) {
	var input models.ShiftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	_, err := DB.Exec(`INSERT INTO shifts (id, participant_id, worker_id, support_type, scheduled_start, scheduled_end, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, input.ParticipantID, input.WorkerID, input.SupportType,
		input.ScheduledStart.UTC(), input.ScheduledEnd.UTC(), input.Notes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s, err := getShiftByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created shift: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// UpdateShift updates an existing shift
// @Summary      Update shift
// @Description  Update a pending shift's schedule details.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id     path      string             true  "Shift ID"
// @Param        shift  body      models.ShiftInput  true  "Updated shift contents"
// @Success      200    {object}  Response{data=models.Shift}
// @Failure      400    {object}  Response{error=string}
// @Failure      404    {object}  Response{error=string}
// @Failure      409    {object}  Response{error=string}
// @Router       /shifts/{id} [put]
// @Security     BasicAuth
func UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input models.ShiftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// Billed shifts are frozen; their line items reference the times billed.
	res, err := DB.Exec(`UPDATE shifts SET participant_id = ?, worker_id = ?, support_type = ?,
		scheduled_start = ?, scheduled_end = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status != 'billed'`,
		input.ParticipantID, input.WorkerID, input.SupportType,
		input.ScheduledStart.UTC(), input.ScheduledEnd.UTC(), input.Notes, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		if err := DB.QueryRow("SELECT status FROM shifts WHERE id = ?", id).Scan(&status); err == nil {
			writeError(w, http.StatusConflict, "billed shifts cannot be modified")
			return
		}
		writeError(w, http.StatusNotFound, "shift not found")
		return
	}
	s, err := getShiftByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated shift: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// CompleteShift records actual times for a shift
// @Summary      Complete shift
// @Description  Record the actual start/end times of a shift and mark it completed, making it eligible for billing.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id          path      string                        true  "Shift ID"
// @Param        completion  body      models.ShiftCompletionInput  true  "Actual shift times"
// @Success      200         {object}  Response{data=models.Shift}
// @Failure      400         {object}  Response{error=string}
// @Failure      404         {object}  Response{error=string}
// @Failure      409         {object}  Response{error=string}
// @Router       /shifts/{id}/complete [post]
// @Security     BasicAuth
func CompleteShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input models.ShiftCompletionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE shifts SET actual_start = ?, actual_end = ?, status = 'completed',
		updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = 'pending'`,
		input.ActualStart.UTC(), input.ActualEnd.UTC(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		if err := DB.QueryRow("SELECT status FROM shifts WHERE id = ?", id).Scan(&status); err == nil {
			writeError(w, http.StatusConflict, "shift is already "+status)
			return
		}
		writeError(w, http.StatusNotFound, "shift not found")
		return
	}
	s, err := getShiftByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch completed shift: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DeleteShift deletes a shift
// @Summary      Delete shift
// @Description  Remove a shift that has not been billed.
// @Tags         shifts
// @Produce      json
// @Param        id   path      string  true  "Shift ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /shifts/{id} [delete]
// @Security     BasicAuth
func DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM shifts WHERE id = ? AND status != 'billed'", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		if err := DB.QueryRow("SELECT status FROM shifts WHERE id = ?", id).Scan(&status); err == nil {
			writeError(w, http.StatusConflict, "billed shifts cannot be deleted")
			return
		}
		writeError(w, http.StatusNotFound, "shift not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
