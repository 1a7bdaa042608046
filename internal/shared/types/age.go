package types

import (
	"fmt"
	"strconv"
	"time"
)

// UnknownAge is returned by AgeString for any birth date it cannot read
const UnknownAge = "Unknown"

// AgeString returns a display age such as "51y 3m".
//
// birthISO is either an RFC 3339 instant (read in now's location) or any
// string starting with YYYY-MM-DD. Months are now.Month - birth.Month,
// lifted by 12 when negative; the year count is not decremented in that
// case.
func AgeString(birthISO string, now time.Time) string {
	year, month, ok := birthYearMonth(birthISO, now.Location())
	if !ok {
		return UnknownAge
	}
	years := now.Year() - year
	months := int(now.Month()) - month
	if months < 0 {
		months += 12
	}
	return fmt.Sprintf("%dy %dm", years, months)
}

func birthYearMonth(s string, loc *time.Location) (int, int, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t = t.In(loc)
		return t.Year(), int(t.Month()), true
	}

	if len(s) > 10 {
		s = s[:10]
	}
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return 0, 0, false
	}
	if !isDigits(s[0:4]) || !isDigits(s[5:7]) || !isDigits(s[8:10]) {
		return 0, 0, false
	}
	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[5:7])
	day, _ := strconv.Atoi(s[8:10])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, false
	}
	return year, month, true
}
