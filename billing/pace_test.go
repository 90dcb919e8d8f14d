package billing

import (
	"errors"
	"strings"
	"testing"

	"github.com/auscare/ndis-portal/models"
	"github.com/shopspring/decimal"
)

func testOrg() models.Organization {
	return models.Organization{
		Name:               "Auscare Supports",
		RegistrationNumber: "4050001234",
		Timezone:           "Australia/Sydney",
		Region:             "NSW",
	}
}

func finalizedInvoice(number int64, ndis string, lines ...models.InvoiceLineItem) models.Invoice {
	return models.Invoice{
		InvoiceNumber:         number,
		ParticipantID:         "p-" + ndis,
		Status:                models.InvoiceFinalized,
		ParticipantNDISNumber: &ndis,
		LineItems:             lines,
	}
}

func paceLine(item, serviceDate, qty, price, gst string) models.InvoiceLineItem {
	return models.InvoiceLineItem{
		ItemNumber:  item,
		ServiceDate: serviceDate,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
		GSTCode:     gst,
	}
}

func TestExportPACE(t *testing.T) {
	invoices := []models.Invoice{
		// deliberately out of order: output must sort by invoice number,
		// then service date within each invoice
		finalizedInvoice(43, "430111222",
			paceLine("01_011_0107_1_1", "2025-11-10", "1.5", "67.56", "P2"),
		),
		finalizedInvoice(42, "430999888",
			paceLine("01_021_0107_1_1", "2025-11-20", "2", "148.66", "P2"),
			paceLine("01_011_0107_1_1", "2025-11-03", "2", "67.56", "P2"),
		),
	}

	got, err := ExportPACE(invoices, testOrg())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := strings.Join([]string{
		"RegistrationNumber,NDISNumber,SupportItemNumber,ClaimDate,Quantity,UnitPrice,GSTCode,InvoiceNumber",
		"4050001234,430999888,01_011_0107_1_1,03/11/2025,2.00,67.56,P2,INV-00042",
		"4050001234,430999888,01_021_0107_1_1,20/11/2025,2.00,148.66,P2,INV-00042",
		"4050001234,430111222,01_011_0107_1_1,10/11/2025,1.50,67.56,P2,INV-00043",
		"",
	}, "\n")
	if got != want {
		t.Errorf("csv mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestExportPACEQuotesDelimiters(t *testing.T) {
	inv := finalizedInvoice(1, "430111222",
		paceLine(`01_011,legacy`, "2025-11-03", "1", "67.56", "P2"),
	)

	got, err := ExportPACE([]models.Invoice{inv}, testOrg())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `"01_011,legacy"`) {
		t.Errorf("field containing delimiter must be quoted, got:\n%s", got)
	}
}

func TestExportPACEWholeBatchPreconditions(t *testing.T) {
	good := finalizedInvoice(42, "430999888",
		paceLine("01_011_0107_1_1", "2025-11-03", "2", "67.56", "P2"),
	)
	draft := good
	draft.Status = models.InvoiceDraft

	t.Run("draft invoice blocks the whole export", func(t *testing.T) {
		out, err := ExportPACE([]models.Invoice{good, draft}, testOrg())
		if !errors.Is(err, ErrInvoiceNotFinalized) {
			t.Fatalf("expected ErrInvoiceNotFinalized, got %v", err)
		}
		if out != "" {
			t.Errorf("no CSV may be emitted on failure, got %q", out)
		}
	})

	t.Run("missing registration blocks the whole export", func(t *testing.T) {
		org := testOrg()
		org.RegistrationNumber = ""
		out, err := ExportPACE([]models.Invoice{good}, org)
		if !errors.Is(err, ErrMissingRegistration) {
			t.Fatalf("expected ErrMissingRegistration, got %v", err)
		}
		if out != "" {
			t.Errorf("no CSV may be emitted on failure, got %q", out)
		}
	})

	t.Run("missing participant NDIS number blocks the whole export", func(t *testing.T) {
		anon := good
		anon.ParticipantNDISNumber = nil
		out, err := ExportPACE([]models.Invoice{anon}, testOrg())
		if err == nil {
			t.Fatal("expected error for missing NDIS number")
		}
		if out != "" {
			t.Errorf("no CSV may be emitted on failure, got %q", out)
		}
	})
}
