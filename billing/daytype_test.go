package billing

import (
	"errors"
	"testing"
	"time"
)

func sydney(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	return loc
}

func TestClassify(t *testing.T) {
	loc := sydney(t)
	cal := NewHolidayCalendar()
	cal.Add("NSW", time.Date(2025, 12, 25, 0, 0, 0, 0, loc)) // Christmas, a Thursday
	cal.Add("NSW", time.Date(2026, 4, 5, 0, 0, 0, 0, loc))   // Easter Sunday
	cal.RegisterRegion("ACT")                                // registered, no holidays loaded

	tests := []struct {
		name   string
		date   time.Time
		region string
		want   DayType
	}{
		{"ordinary weekday", time.Date(2025, 12, 22, 0, 0, 0, 0, loc), "NSW", DayTypeWeekday},
		{"saturday", time.Date(2025, 12, 20, 0, 0, 0, 0, loc), "NSW", DayTypeSaturday},
		{"sunday", time.Date(2025, 12, 21, 0, 0, 0, 0, loc), "NSW", DayTypeSunday},
		{"holiday on a weekday", time.Date(2025, 12, 25, 0, 0, 0, 0, loc), "NSW", DayTypePublicHoliday},
		{"holiday beats sunday", time.Date(2026, 4, 5, 0, 0, 0, 0, loc), "NSW", DayTypePublicHoliday},
		// the calendar only knows what was loaded: ACT has no holidays
		// registered, so Christmas Day there is just a Thursday
		{"regions do not share holidays", time.Date(2025, 12, 25, 0, 0, 0, 0, loc), "ACT", DayTypeWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.Classify(tt.date, tt.region)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyUnknownRegion(t *testing.T) {
	loc := sydney(t)
	cal := NewHolidayCalendar()
	cal.Add("NSW", time.Date(2025, 12, 25, 0, 0, 0, 0, loc))

	_, err := cal.Classify(time.Date(2025, 12, 25, 0, 0, 0, 0, loc), "TAS")
	if !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
}
