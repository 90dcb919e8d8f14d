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

const workerSelectQuery = `SELECT id, name, email, phone, status, created_at, updated_at FROM workers`

func scanWorker(scanner interface{ Scan(...any) error }) (models.Worker, error) {
	var wk models.Worker
	err := scanner.Scan(&wk.ID, &wk.Name, &wk.Email, &wk.Phone, &wk.Status, &wk.CreatedAt, &wk.UpdatedAt)
	return wk, err
}

func getWorkerByID(id string) (models.Worker, error) {
	return scanWorker(DB.QueryRow(workerSelectQuery+" WHERE id = ?", id))
}

// ListWorkers lists all workers
// @Summary      List workers
// @Description  Get a list of all support workers.
// @Tags         workers
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  Response{data=[]models.Worker}
// @Router       /workers [get]
// @Security     BasicAuth
func ListWorkers(w http.ResponseWriter, r *http.Request) {
	query := workerSelectQuery
	var conditions []string
	var args []any

	if s := r.URL.Query().Get("status"); s != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, s)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+search+"%")
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

	var workers []models.Worker
	for rows.Next() {
		wk, err := scanWorker(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		workers = append(workers, wk)
	}
	if workers == nil {
		workers = []models.Worker{}
	}
	writeJSON(w, http.StatusOK, workers)
}

// GetWorker retrieves a single worker by ID
// @Summary      Get worker
// @Description  Get details of a specific support worker.
// @Tags         workers
// @Produce      json
// @Param        id   path      string  true  "Worker ID"
// @Success      200  {object}  Response{data=models.Worker}
// @Failure      404  {object}  Response{error=string}
// @Router       /workers/{id} [get]
// @Security     BasicAuth
func GetWorker(w http.ResponseWriter, r *http.Request) {
	wk, err := getWorkerByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "worker not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

// CreateWorker creates a new worker
// @Summary      Create worker
// @Description  Create a new support worker.
// @Tags         workers
// @Accept       json
// @Produce      json
// @Param        worker  body      models.WorkerInput  true  "Worker contents"
// @Success      201     {object}  Response{data=models.Worker}
// @Failure      400     {object}  Response{error=string}
// @Router       /workers [post]
// @Security     BasicAuth
func CreateWorker(w http.ResponseWriter, r *http.Request) {
	var input models.WorkerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	_, err := DB.Exec(`INSERT INTO workers (id, name, email, phone, status) VALUES (?, ?, ?, ?, ?)`,
		id, input.Name, input.Email, input.Phone, input.Status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	wk, err := getWorkerByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created worker: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, wk)
}

// UpdateWorker updates an existing worker
// @Summary      Update worker
// @Description  Update details of an existing support worker.
// @Tags         workers
// @Accept       json
// @Produce      json
// @Param        id      path      string              true  "Worker ID"
// @Param        worker  body      models.WorkerInput  true  "Updated worker contents"
// @Success      200     {object}  Response{data=models.Worker}
// @Failure      400     {object}  Response{error=string}
// @Failure      404     {object}  Response{error=string}
// @Router       /workers/{id} [put]
// @Security     BasicAuth
func UpdateWorker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input models.WorkerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE workers SET name = ?, email = ?, phone = ?, status = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.Name, input.Email, input.Phone, input.Status, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}
	wk, err := getWorkerByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated worker: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

// DeleteWorker deletes a worker
// @Summary      Delete worker
// @Description  Remove a support worker without shifts.
// @Tags         workers
// @Produce      json
// @Param        id   path      string  true  "Worker ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /workers/{id} [delete]
// @Security     BasicAuth
func DeleteWorker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM workers WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusConflict, "worker has shifts and cannot be deleted")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
