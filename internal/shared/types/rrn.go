package types

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// RRN represents a Korean Resident Registration Number (13 digits)
// Format: YYMMDDSNNNNNN where:
// - YYMMDD: date of birth
// - S: sex/century code ('1','2' born 1900s; '3','4' born 2000s)
// - NNNNNN: registration serial
type RRN string

var rrnRegex = regexp.MustCompile(`^[0-9]{13}$`)

// IsWellFormed reports whether the RRN is exactly 13 ASCII digits
func (r RRN) IsWellFormed() bool {
	return rrnRegex.MatchString(string(r))
}

// String returns the string representation
func (r RRN) String() string {
	return string(r)
}

// Masked returns a masked version for display and logs (first 7 digits visible)
func (r RRN) Masked() string {
	if len(r) < 13 {
		return "*************"
	}
	return string(r)[:7] + "******"
}

// Sex returns the sex/century code at index 6, or "" when malformed
func (r RRN) Sex() SexCode {
	if !r.IsWellFormed() {
		return ""
	}
	return SexCode(r[6:7])
}

// IsZero checks if the RRN is empty
func (r RRN) IsZero() bool {
	return r == ""
}

// DeriveSearchKey returns the server search key "YYMMDD-S" for a 13 digit RRN.
// S is copied as is: a sex digit DeriveBirthDate would reject (0, 5-9)
// still produces a key.
func DeriveSearchKey(s string) (string, bool) {
	r := RRN(s)
	if !r.IsWellFormed() {
		return "", false
	}
	return s[:6] + "-" + s[6:7], true
}

// BirthDate is a birth date read from an RRN. Day is only range checked
// (1..31), so it may not exist in the calendar (e.g. Feb 31); Year, Month
// and Day are kept exactly as read.
type BirthDate struct {
	Year     int
	Month    time.Month
	Day      int
	Location *time.Location
}

// ISO renders local midnight with the zone offset, e.g.
// "1990-01-01T00:00:00+09:00".
func (b BirthDate) ISO() string {
	loc := b.location()
	// offset is taken from the first of the month so that lexically
	// out-of-range days keep a stable offset
	offset := time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, loc).Format("Z07:00")
	return fmt.Sprintf("%04d-%02d-%02dT00:00:00%s", b.Year, int(b.Month), b.Day, offset)
}

// Time returns the instant of local midnight. Days past the end of the
// month roll over into the next month.
func (b BirthDate) Time() time.Time {
	return time.Date(b.Year, b.Month, b.Day, 0, 0, 0, 0, b.location())
}

// DateString renders "YYYY-MM-DD"
func (b BirthDate) DateString() string {
	return fmt.Sprintf("%04d-%02d-%02d", b.Year, int(b.Month), b.Day)
}

func (b BirthDate) location() *time.Location {
	if b.Location == nil {
		return time.Local
	}
	return b.Location
}

// DeriveBirthDate extracts the birth date from a 13 digit RRN. The century
// comes from the sex code; any other code fails. Month must be 1..12 and day
// 1..31.
func DeriveBirthDate(s string, loc *time.Location) (BirthDate, bool) {
	r := RRN(s)
	if !r.IsWellFormed() {
		return BirthDate{}, false
	}

	var century int
	switch s[6] {
	case '1', '2':
		century = 1900
	case '3', '4':
		century = 2000
	default:
		return BirthDate{}, false
	}

	yy, err := strconv.Atoi(s[0:2])
	if err != nil {
		return BirthDate{}, false
	}
	mm, err := strconv.Atoi(s[2:4])
	if err != nil || mm < 1 || mm > 12 {
		return BirthDate{}, false
	}
	dd, err := strconv.Atoi(s[4:6])
	if err != nil || dd < 1 || dd > 31 {
		return BirthDate{}, false
	}

	if loc == nil {
		loc = time.Local
	}
	return BirthDate{
		Year:     century + yy,
		Month:    time.Month(mm),
		Day:      dd,
		Location: loc,
	}, true
}
