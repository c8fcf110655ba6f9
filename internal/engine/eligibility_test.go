package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameCalendarDay(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	morning := time.Date(2026, 8, 30, 9, 0, 0, 0, paris)
	evening := time.Date(2026, 8, 30, 23, 59, 0, 0, paris)
	nextDay := time.Date(2026, 8, 31, 0, 1, 0, 0, paris)

	assert.True(t, SameCalendarDay(morning, evening, paris))
	assert.False(t, SameCalendarDay(evening, nextDay, paris), "gate resets at midnight, not after 24h")
	assert.False(t, SameCalendarDay(morning, morning.AddDate(0, 0, -1), paris))
}

func TestSameCalendarDay_ComparesInLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 23:30 UTC on the 29th is already the 30th in Paris.
	lateUTC := time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC)
	parisMorning := time.Date(2026, 8, 30, 8, 0, 0, 0, paris)

	assert.True(t, SameCalendarDay(lateUTC, parisMorning, paris))
	assert.False(t, SameCalendarDay(lateUTC, parisMorning, time.UTC))
}
