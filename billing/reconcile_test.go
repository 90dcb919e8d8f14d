package billing

import (
	"errors"
	"testing"
	"time"
)

func TestReconcile(t *testing.T) {
	loc := sydney(t)
	policy := DefaultPolicy(loc, "NSW")
	at := func(h, m int) time.Time {
		return time.Date(2025, 11, 3, h, m, 0, 0, loc)
	}
	ptr := func(v time.Time) *time.Time { return &v }

	tests := []struct {
		name         string
		schedStart   time.Time
		schedEnd     time.Time
		actStart     *time.Time
		actEnd       *time.Time
		wantBillable int
		wantCap      bool
	}{
		{
			name:       "exact match bills scheduled",
			schedStart: at(9, 0), schedEnd: at(11, 0),
			actStart: ptr(at(9, 0)), actEnd: ptr(at(11, 0)),
			wantBillable: 120,
		},
		{
			name:       "overrun within tolerance bills scheduled",
			schedStart: at(9, 0), schedEnd: at(11, 0),
			actStart: ptr(at(9, 0)), actEnd: ptr(at(11, 10)),
			wantBillable: 120,
		},
		{
			name:       "underrun within tolerance bills scheduled",
			schedStart: at(9, 0), schedEnd: at(11, 0),
			actStart: ptr(at(9, 0)), actEnd: ptr(at(10, 50)),
			wantBillable: 120,
		},
		{
			name:       "overrun beyond tolerance bills actual",
			schedStart: at(9, 0), schedEnd: at(10, 0),
			actStart: ptr(at(9, 0)), actEnd: ptr(at(10, 20)),
			wantBillable: 80,
		},
		{
			name:       "overrun beyond cap is capped and flagged",
			schedStart: at(9, 0), schedEnd: at(10, 0),
			actStart: ptr(at(9, 0)), actEnd: ptr(at(10, 40)),
			wantBillable: 90,
			wantCap:      true,
		},
		{
			name:       "early finish beyond tolerance bills actual",
			schedStart: at(9, 0), schedEnd: at(11, 0),
			actStart: ptr(at(9, 0)), actEnd: ptr(at(10, 0)),
			wantBillable: 60,
		},
		{
			name:       "fractional seconds truncate",
			schedStart: at(9, 0), schedEnd: at(11, 0),
			actStart: ptr(at(9, 0)), actEnd: ptr(time.Date(2025, 11, 3, 10, 59, 45, 0, loc)),
			wantBillable: 120, // actual truncates to 119, inside tolerance
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Reconcile(tt.schedStart, tt.schedEnd, tt.actStart, tt.actEnd, policy)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.BillableMinutes != tt.wantBillable {
				t.Errorf("billable minutes: got %d, want %d", res.BillableMinutes, tt.wantBillable)
			}
			if res.CapApplied != tt.wantCap {
				t.Errorf("cap applied: got %v, want %v", res.CapApplied, tt.wantCap)
			}
			if res.BillableMinutes < 0 {
				t.Errorf("billable minutes must be non-negative, got %d", res.BillableMinutes)
			}
			if limit := int(float64(res.ScheduledMinutes) * policy.OverrunCap); res.BillableMinutes > limit {
				t.Errorf("billable minutes %d exceeds overrun cap %d", res.BillableMinutes, limit)
			}
		})
	}
}

func TestReconcileErrors(t *testing.T) {
	loc := sydney(t)
	policy := DefaultPolicy(loc, "NSW")
	at := func(h, m int) time.Time {
		return time.Date(2025, 11, 3, h, m, 0, 0, loc)
	}
	ptr := func(v time.Time) *time.Time { return &v }

	tests := []struct {
		name       string
		schedStart time.Time
		schedEnd   time.Time
		actStart   *time.Time
		actEnd     *time.Time
		wantErr    error
	}{
		{"scheduled end before start", at(11, 0), at(9, 0), ptr(at(9, 0)), ptr(at(11, 0)), ErrInvalidShiftWindow},
		{"scheduled zero length", at(9, 0), at(9, 0), ptr(at(9, 0)), ptr(at(11, 0)), ErrInvalidShiftWindow},
		{"actual end before start", at(9, 0), at(11, 0), ptr(at(11, 0)), ptr(at(9, 0)), ErrInvalidShiftWindow},
		{"missing actual start", at(9, 0), at(11, 0), nil, ptr(at(11, 0)), ErrIncompleteShift},
		{"missing actual end", at(9, 0), at(11, 0), ptr(at(9, 0)), nil, ErrIncompleteShift},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconcile(tt.schedStart, tt.schedEnd, tt.actStart, tt.actEnd, policy)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
