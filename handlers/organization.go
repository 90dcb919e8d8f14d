package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/auscare/ndis-portal/models"
)

const organizationSelectQuery = `SELECT id, name, abn, registration_number, timezone, region, gst_rate,
	created_at, updated_at FROM organizations WHERE id = 1`

func getOrganization() (models.Organization, error) {
	var o models.Organization
	err := DB.QueryRow(organizationSelectQuery).Scan(&o.ID, &o.Name, &o.ABN, &o.RegistrationNumber,
		&o.Timezone, &o.Region, &o.GSTRate, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// GetOrganization retrieves the organization settings
// @Summary      Get organization
// @Description  Get the provider organization settings.
// @Tags         organization
// @Produce      json
// @Success      200  {object}  Response{data=models.Organization}
// @Router       /organization [get]
// @Security     BasicAuth
func GetOrganization(w http.ResponseWriter, r *http.Request) {
	o, err := getOrganization()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// UpdateOrganization updates the organization settings
// @Summary      Update organization
// @Description  Update provider details: name, ABN, NDIS registration number, timezone, region, GST rate.
// @Tags         organization
// @Accept       json
// @Produce      json
// @Param        organization  body      models.OrganizationInput  true  "Organization settings"
// @Success      200           {object}  Response{data=models.Organization}
// @Failure      400           {object}  Response{error=string}
// @Router       /organization [put]
// @Security     BasicAuth
func UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	var input models.OrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	_, err := DB.Exec(`UPDATE organizations SET name = ?, abn = ?, registration_number = ?,
		timezone = ?, region = ?, gst_rate = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`,
		input.Name, input.ABN, input.RegistrationNumber, input.Timezone, input.Region, input.GSTRate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	o, err := getOrganization()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch organization: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}
