package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeString(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, kst)

	tests := []struct {
		name  string
		birth string
		want  string
	}{
		{"offset instant", "1990-01-01T00:00:00+09:00", "34y 2m"},
		{"utc instant read in local zone", "1989-12-31T15:00:00Z", "34y 2m"},
		{"utc instant with millis", "1989-12-31T15:00:00.000Z", "34y 2m"},
		{"date only", "1990-03-01", "34y 0m"},
		{"local date time", "1990-03-01T00:00:00", "34y 0m"},
		{"later month does not borrow a year", "1990-05-20", "34y 10m"},
		{"feb 31 from rrn", "1972-02-31T00:00:00+09:00", "52y 1m"},
		{"born this month", "2024-03-01", "0y 0m"},
		{"empty", "", UnknownAge},
		{"garbage", "not-a-date", UnknownAge},
		{"month 13", "1990-13-01", UnknownAge},
		{"short", "1990-1-1", UnknownAge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeString(tt.birth, now))
		})
	}
}

func TestCompactDateAndLocalISO(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 9, 30, 0, 0, kst)
	assert.Equal(t, "20240305", CompactDate(ts))
	assert.Equal(t, "2024-03-05T09:30:00", LocalISO(ts))

	withNanos := time.Date(2024, time.March, 5, 9, 30, 1, 120000000, kst)
	assert.Equal(t, "2024-03-05T09:30:01.12", LocalISO(withNanos))
}
