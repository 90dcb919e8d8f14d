package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Organization holds the provider's own details. The portal is single-tenant:
// exactly one row exists, created by the migrations.
type Organization struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	ABN                *string         `json:"abn"`
	RegistrationNumber string          `json:"registration_number"` // NDIS provider registration, required for PACE export
	Timezone           string          `json:"timezone"`            // IANA name, e.g. Australia/Sydney
	Region             string          `json:"region"`              // public-holiday jurisdiction, e.g. NSW
	GSTRate            decimal.Decimal `json:"gst_rate"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OrganizationInput is used for updating organization settings.
type OrganizationInput struct {
	Name               string          `json:"name"`
	ABN                *string         `json:"abn"`
	RegistrationNumber string          `json:"registration_number"`
	Timezone           string          `json:"timezone"`
	Region             string          `json:"region"`
	GSTRate            decimal.Decimal `json:"gst_rate"`
}

func (o *OrganizationInput) Validate() string {
	if o.Name == "" {
		return "name is required"
	}
	if o.Timezone == "" {
		o.Timezone = "Australia/Sydney"
	}
	if _, err := time.LoadLocation(o.Timezone); err != nil {
		return "timezone must be a valid IANA timezone name"
	}
	if o.Region == "" {
		return "region is required"
	}
	if o.GSTRate.IsNegative() || o.GSTRate.GreaterThan(decimal.NewFromInt(1)) {
		return "gst_rate must be between 0 and 1"
	}
	return ""
}
