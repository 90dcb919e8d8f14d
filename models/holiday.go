package models

import "time"

// Holiday is one gazetted public holiday for a jurisdiction.
type Holiday struct {
	ID        int       `json:"id"`
	Region    string    `json:"region"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// HolidayInput is used for creating holidays.
type HolidayInput struct {
	Region string `json:"region"`
	Date   string `json:"date"`
	Name   string `json:"name"`
}

func (h *HolidayInput) Validate() string {
	if h.Region == "" {
		return "region is required"
	}
	if _, err := time.Parse("2006-01-02", h.Date); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	if h.Name == "" {
		return "name is required"
	}
	return ""
}
