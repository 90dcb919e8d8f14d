package models

import "time"

// Worker represents a support worker who delivers shifts.
type Worker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Status    string    `json:"status"` // active, inactive
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkerInput is used for creating/updating workers.
type WorkerInput struct {
	Name   string  `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Status string  `json:"status"`
}

func (w *WorkerInput) Validate() string {
	if w.Name == "" {
		return "name is required"
	}
	switch w.Status {
	case "", "active", "inactive":
	default:
		return "status must be one of: active, inactive"
	}
	if w.Status == "" {
		w.Status = "active"
	}
	return ""
}
