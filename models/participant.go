package models

import "time"

// Participant represents an NDIS participant receiving supports.
type Participant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	NDISNumber string    `json:"ndis_number"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ParticipantInput is used for creating/updating participants.
type ParticipantInput struct {
	Name       string  `json:"name"`
	NDISNumber string  `json:"ndis_number"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Notes      *string `json:"notes"`
}

func (p *ParticipantInput) Validate() string {
	if p.Name == "" {
		return "name is required"
	}
	if p.NDISNumber == "" {
		return "ndis_number is required"
	}
	if len(p.NDISNumber) != 9 {
		return "ndis_number must be 9 digits"
	}
	for _, c := range p.NDISNumber {
		if c < '0' || c > '9' {
			return "ndis_number must be 9 digits"
		}
	}
	return ""
}
