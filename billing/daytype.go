// Package billing implements invoice generation and NDIA claim export for an
// NDIS provider: day-type classification, scheduled/actual time
// reconciliation, price guide resolution, invoice aggregation, and PACE CSV
// serialization. Every function is a pure, synchronous transform over
// in-memory inputs; all I/O belongs to the caller.
package billing

import (
	"fmt"
	"time"
)

// DayType classifies a service date for rate-differential purposes.
type DayType string

const (
	DayTypeWeekday       DayType = "weekday"
	DayTypeSaturday      DayType = "saturday"
	DayTypeSunday        DayType = "sunday"
	DayTypePublicHoliday DayType = "public_holiday"
)

const dateLayout = "2006-01-02"

// HolidayCalendar holds gazetted public holidays keyed by jurisdiction.
// A region must be registered (even with zero holidays) before dates in it
// can be classified; an unregistered region is an error, never "no holidays".
type HolidayCalendar struct {
	regions map[string]map[string]struct{}
}

func NewHolidayCalendar() *HolidayCalendar {
	return &HolidayCalendar{regions: make(map[string]map[string]struct{})}
}

// RegisterRegion marks a jurisdiction as known, with or without holidays.
func (c *HolidayCalendar) RegisterRegion(region string) {
	if _, ok := c.regions[region]; !ok {
		c.regions[region] = make(map[string]struct{})
	}
}

// Add records a public holiday for a region, registering the region if needed.
func (c *HolidayCalendar) Add(region string, date time.Time) {
	c.RegisterRegion(region)
	c.regions[region][date.Format(dateLayout)] = struct{}{}
}

// Classify returns the day type of a calendar date in a jurisdiction.
// Public-holiday status takes precedence over the weekday/weekend split.
func (c *HolidayCalendar) Classify(date time.Time, region string) (DayType, error) {
	holidays, ok := c.regions[region]
	if !ok {
		return "", fmt.Errorf("region %q: %w", region, ErrUnknownRegion)
	}
	if _, holiday := holidays[date.Format(dateLayout)]; holiday {
		return DayTypePublicHoliday, nil
	}
	switch date.Weekday() {
	case time.Saturday:
		return DayTypeSaturday, nil
	case time.Sunday:
		return DayTypeSunday, nil
	default:
		return DayTypeWeekday, nil
	}
}
