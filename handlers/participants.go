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

const participantSelectQuery = `SELECT id, name, ndis_number, email, phone, notes, created_at, updated_at
	FROM participants`

func scanParticipant(scanner interface{ Scan(...any) error }) (models.Participant, error) {
	var p models.Participant
	err := scanner.Scan(&p.ID, &p.Name, &p.NDISNumber, &p.Email, &p.Phone, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func getParticipantByID(id string) (models.Participant, error) {
	return scanParticipant(DB.QueryRow(participantSelectQuery+" WHERE id = ?", id))
}

// ListParticipants lists all participants
// @Summary      List participants
// @Description  Get a list of all NDIS participants.
// @Tags         participants
// @Produce      json
// @Param        search  query     string  false  "Search by name or NDIS number"
// @Success      200     {object}  Response{data=[]models.Participant}
// @Router       /participants [get]
// @Security     BasicAuth
func ListParticipants(w http.ResponseWriter, r *http.Request) {
	query := participantSelectQuery
	var conditions []string
	var args []any

	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(name LIKE ? OR ndis_number LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		participants = append(participants, p)
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	writeJSON(w, http.StatusOK, participants)
}

// GetParticipant retrieves a single participant by ID
// @Summary      Get participant
// @Description  Get details of a specific participant.
// @Tags         participants
// @Produce      json
// @Param        id   path      string  true  "Participant ID"
// @Success      200  {object}  Response{data=models.Participant}
// @Failure      404  {object}  Response{error=string}
// @Router       /participants/{id} [get]
// @Security     BasicAuth
func GetParticipant(w http.ResponseWriter, r *http.Request) {
	p, err := getParticipantByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "participant not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateParticipant creates a new participant
// @Summary      Create participant
// @Description  Create a new NDIS participant.
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        participant  body      models.ParticipantInput  true  "Participant contents"
// @Success      201          {object}  Response{data=models.Participant}
// @Failure      400          {object}  Response{error=string}
// @Router       /participants [post]
// @Security     BasicAuth
func CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var input models.ParticipantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	_, err := DB.Exec(`INSERT INTO participants (id, name, ndis_number, email, phone, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, input.Name, input.NDISNumber, input.Email, input.Phone, input.Notes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p, err := getParticipantByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created participant: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateParticipant updates an existing participant
// @Summary      Update participant
// @Description  Update details of an existing participant.
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        id           path      string                   true  "Participant ID"
// @Param        participant  body      models.ParticipantInput  true  "Updated participant contents"
// @Success      200          {object}  Response{data=models.Participant}
// @Failure      400          {object}  Response{error=string}
// @Failure      404          {object}  Response{error=string}
// @Router       /participants/{id} [put]
// @Security     BasicAuth
func UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input models.ParticipantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE participants SET name = ?, ndis_number = ?, email = ?, phone = ?, notes = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.Name, input.NDISNumber, input.Email, input.Phone, input.Notes, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "participant not found")
		return
	}
	p, err := getParticipantByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated participant: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteParticipant deletes a participant
// @Summary      Delete participant
// @Description  Remove a participant without shifts or invoices.
// @Tags         participants
// @Produce      json
// @Param        id   path      string  true  "Participant ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /participants/{id} [delete]
// @Security     BasicAuth
func DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		// FK RESTRICT: participants with shifts or invoices cannot be removed
		writeError(w, http.StatusConflict, "participant has shifts or invoices and cannot be deleted")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "participant not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
