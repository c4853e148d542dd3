package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", date(2024, 1, 10), date(2024, 1, 10), 0},
		{"next day", date(2024, 1, 10), date(2024, 1, 11), 1},
		{"past date is negative", date(2024, 1, 10), date(2024, 1, 8), -2},
		{"across month boundary", date(2024, 1, 30), date(2024, 2, 2), 3},
		{"across leap day", date(2024, 2, 28), date(2024, 3, 1), 2},
		{"across year boundary", date(2023, 12, 30), date(2024, 1, 4), 5},
		{
			// Time-of-day and zone are discarded before differencing.
			"clock components ignored",
			time.Date(2024, 1, 10, 23, 59, 0, 0, time.FixedZone("X", 3600)),
			time.Date(2024, 1, 11, 0, 1, 0, 0, time.UTC),
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 15), got)

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)
}

func TestFridgeItemAmounts(t *testing.T) {
	weight := 250.0
	item := FridgeItem{Weight: &weight}
	assert.Equal(t, []float64{250.0}, item.Amounts())

	// Fixed column order: quantity, volume, weight.
	quantity, volume := 6.0, 1.5
	full := FridgeItem{Quantity: &quantity, Volume: &volume, Weight: &weight}
	assert.Equal(t, []float64{6.0, 1.5, 250.0}, full.Amounts())

	var empty FridgeItem
	assert.Empty(t, empty.Amounts())
}
