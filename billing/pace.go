package billing

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/auscare/ndis-portal/models"
)

// paceColumns is the NDIA myplace bulk-claim layout. Column order, the
// DD/MM/YYYY date format, 2-decimal numeric formatting, and the P1/P2 GST
// codes are fixed by the external PACE specification and must not drift.
var paceColumns = []string{
	"RegistrationNumber",
	"NDISNumber",
	"SupportItemNumber",
	"ClaimDate",
	"Quantity",
	"UnitPrice",
	"GSTCode",
	"InvoiceNumber",
}

const paceDateLayout = "02/01/2006"

// ExportPACE serializes finalized invoices into the PACE bulk-claim CSV: one
// row per line item, ordered by invoice number then service date.
//
// Preconditions are whole-batch: every invoice must be finalized and the
// organization must hold an NDIS registration number, checked before any row
// is produced so a partially valid file can never be emitted.
func ExportPACE(invoices []models.Invoice, org models.Organization) (string, error) {
	if org.RegistrationNumber == "" {
		return "", fmt.Errorf("organization %q: %w", org.Name, ErrMissingRegistration)
	}
	for _, inv := range invoices {
		if inv.Status != models.InvoiceFinalized {
			return "", fmt.Errorf("invoice %s has status %q: %w", inv.Reference(), inv.Status, ErrInvoiceNotFinalized)
		}
		if inv.ParticipantNDISNumber == nil || *inv.ParticipantNDISNumber == "" {
			return "", fmt.Errorf("invoice %s: participant has no NDIS number", inv.Reference())
		}
	}

	ordered := make([]models.Invoice, len(invoices))
	copy(ordered, invoices)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].InvoiceNumber < ordered[j].InvoiceNumber
	})

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(paceColumns); err != nil {
		return "", err
	}
	for _, inv := range ordered {
		lines := make([]models.InvoiceLineItem, len(inv.LineItems))
		copy(lines, inv.LineItems)
		sort.SliceStable(lines, func(i, j int) bool {
			return lines[i].ServiceDate < lines[j].ServiceDate
		})
		for _, line := range lines {
			day, err := time.Parse(dateLayout, line.ServiceDate)
			if err != nil {
				return "", fmt.Errorf("invoice %s line %s: bad service date %q", inv.Reference(), line.ID, line.ServiceDate)
			}
			row := []string{
				org.RegistrationNumber,
				*inv.ParticipantNDISNumber,
				line.ItemNumber,
				day.Format(paceDateLayout),
				line.Quantity.StringFixed(2),
				line.UnitPrice.StringFixed(2),
				line.GSTCode,
				inv.Reference(),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
