package billing

import "errors"

// Billing errors are recoverable data problems a billing operator fixes and
// retries; callers match them with errors.Is.
var (
	ErrInvalidShiftWindow  = errors.New("shift window end must be after start")
	ErrIncompleteShift     = errors.New("shift is not completed with actual times recorded")
	ErrShiftAlreadyBilled  = errors.New("shift has already been billed")
	ErrUnknownRegion       = errors.New("no holiday calendar registered for region")
	ErrPriceNotFound       = errors.New("no price guide entry for support type and day type")
	ErrEmptyPeriod         = errors.New("no billable line items fall within the period")
	ErrInvoiceNotFinalized = errors.New("invoice is not finalized")
	ErrMissingRegistration = errors.New("organization has no NDIS registration number")
)
