package billing

import (
	"fmt"
	"time"
)

// Policy controls how a shift's billable time is derived and how its service
// date is interpreted.
type Policy struct {
	// ToleranceMinutes is the band around the scheduled duration within which
	// the scheduled duration is billed as-is.
	ToleranceMinutes int
	// OverrunCap is the multiplier over the scheduled duration beyond which
	// actual time is capped and the line flagged for manual review.
	OverrunCap float64
	// Timezone is the organization's timezone, used to derive service dates.
	Timezone *time.Location
	// Region is the public-holiday jurisdiction.
	Region string
}

// DefaultPolicy returns the standard policy: ±15 minute tolerance and a 1.5×
// overrun cap.
func DefaultPolicy(tz *time.Location, region string) Policy {
	return Policy{
		ToleranceMinutes: 15,
		OverrunCap:       1.5,
		Timezone:         tz,
		Region:           region,
	}
}

// ReconcileResult is the outcome of reconciling scheduled against actual time.
type ReconcileResult struct {
	ScheduledMinutes int
	ActualMinutes    int
	BillableMinutes  int
	// CapApplied marks that the actual overrun exceeded the cap; the excess
	// needs a manual override, it is never silently billed or dropped.
	CapApplied bool
}

// Reconcile derives billable minutes for a shift:
//
//   - actual within ±tolerance of scheduled: bill scheduled
//   - actual over scheduled beyond tolerance: bill actual, capped at
//     scheduled × OverrunCap (cap application is flagged)
//   - actual under scheduled beyond tolerance: bill actual
//
// Durations are whole minutes with fractional seconds truncated.
func Reconcile(scheduledStart, scheduledEnd time.Time, actualStart, actualEnd *time.Time, p Policy) (ReconcileResult, error) {
	if !scheduledEnd.After(scheduledStart) {
		return ReconcileResult{}, fmt.Errorf("scheduled window: %w", ErrInvalidShiftWindow)
	}
	if actualStart == nil || actualEnd == nil {
		return ReconcileResult{}, ErrIncompleteShift
	}
	if !actualEnd.After(*actualStart) {
		return ReconcileResult{}, fmt.Errorf("actual window: %w", ErrInvalidShiftWindow)
	}

	res := ReconcileResult{
		ScheduledMinutes: wholeMinutes(scheduledStart, scheduledEnd),
		ActualMinutes:    wholeMinutes(*actualStart, *actualEnd),
	}

	diff := res.ActualMinutes - res.ScheduledMinutes
	switch {
	case diff >= -p.ToleranceMinutes && diff <= p.ToleranceMinutes:
		res.BillableMinutes = res.ScheduledMinutes
	case diff > p.ToleranceMinutes:
		capped := int(float64(res.ScheduledMinutes) * p.OverrunCap)
		if res.ActualMinutes > capped {
			res.BillableMinutes = capped
			res.CapApplied = true
		} else {
			res.BillableMinutes = res.ActualMinutes
		}
	default:
		res.BillableMinutes = res.ActualMinutes
	}
	return res, nil
}

func wholeMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
