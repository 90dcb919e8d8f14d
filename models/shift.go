package models

import "time"

// Shift statuses. A shift is eligible for billing only once it is completed
// with both actual times recorded; billed shifts are never billed again.
const (
	ShiftPending   = "pending"
	ShiftCompleted = "completed"
	ShiftBilled    = "billed"
)

// Shift is a scheduled unit of service for one participant by one worker.
type Shift struct {
	ID             string     `json:"id"`
	ParticipantID  string     `json:"participant_id"`
	WorkerID       string     `json:"worker_id"`
	SupportType    string     `json:"support_type"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	ScheduledEnd   time.Time  `json:"scheduled_end"`
	ActualStart    *time.Time `json:"actual_start"`
	ActualEnd      *time.Time `json:"actual_end"`
	Status         string     `json:"status"`
	Notes          *string    `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	// Computed fields
	ParticipantName *string `json:"participant_name,omitempty"`
	WorkerName      *string `json:"worker_name,omitempty"`
}

// ShiftInput is used for creating/updating shifts.
type ShiftInput struct {
	ParticipantID  string    `json:"participant_id"`
	WorkerID       string    `json:"worker_id"`
	SupportType    string    `json:"support_type"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	Notes          *string   `json:"notes"`
}

func (s *ShiftInput) Validate() string {
	if s.ParticipantID == "" {
		return "participant_id is required"
	}
	if s.WorkerID == "" {
		return "worker_id is required"
	}
	if s.SupportType == "" {
		return "support_type is required"
	}
	if s.ScheduledStart.IsZero() || s.ScheduledEnd.IsZero() {
		return "scheduled_start and scheduled_end are required"
	}
	if !s.ScheduledEnd.After(s.ScheduledStart) {
		return "scheduled_end must be after scheduled_start"
	}
	return ""
}

// ShiftCompletionInput records the actual times when a worker completes a shift.
type ShiftCompletionInput struct {
	ActualStart time.Time `json:"actual_start"`
	ActualEnd   time.Time `json:"actual_end"`
}

func (s *ShiftCompletionInput) Validate() string {
	if s.ActualStart.IsZero() || s.ActualEnd.IsZero() {
		return "actual_start and actual_end are required"
	}
	if !s.ActualEnd.After(s.ActualStart) {
		return "actual_end must be after actual_start"
	}
	return ""
}
