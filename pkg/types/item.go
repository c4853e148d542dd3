package types

import "time"

// DateLayout is the wire and storage format for calendar dates. Dates carry
// no time component and no timezone.
const DateLayout = "2006-01-02"

// FridgeItem is one physical unit of a product currently in the fridge.
// Exactly one of Quantity, Volume, Weight is set, matching the referenced
// product's measurement type at insertion time.
type FridgeItem struct {
	ItemID         string // UUID v7, generated on creation.
	ProductID      string
	Quantity       *float64
	Volume         *float64
	Weight         *float64
	ExpirationDate time.Time
}

// Amounts returns the populated measurement values in the fixed column
// order (quantity, volume, weight). For a well-formed item this has exactly
// one element.
func (it *FridgeItem) Amounts() []float64 {
	var amounts []float64
	for _, v := range []*float64{it.Quantity, it.Volume, it.Weight} {
		if v != nil {
			amounts = append(amounts, *v)
		}
	}
	return amounts
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DaysBetween returns the exact calendar-day count from one date to
// another. Time-of-day and location are discarded before differencing, so
// the result is a whole number of days regardless of the inputs' clocks.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
