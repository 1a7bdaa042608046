package types

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

func TestDeriveSearchKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"1900s male", "9001011234567", "900101-1", true},
		{"2000s female", "0503154123456", "050315-4", true},
		// keyed on digit position only; DeriveBirthDate rejects the same input
		{"unknown sex digit still keyed", "7210239991111", "721023-9", true},
		{"too short", "900101123456", "", false},
		{"too long", "90010112345678", "", false},
		{"with hyphen", "900101-1234567", "", false},
		{"letter", "90010a1234567", "", false},
		{"empty", "", "", false},
		{"fullwidth digit", "900101１234567", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveSearchKey(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveSearchKey_PrefixProperty(t *testing.T) {
	for i := 0; i < 200; i++ {
		s := fmt.Sprintf("%013d", int64(i)*49979687+1234567)
		got, ok := DeriveSearchKey(s)
		require.True(t, ok, s)
		assert.Equal(t, s[0:6]+"-"+s[6:7], got)
	}
}

func TestDeriveBirthDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		year  int
		month time.Month
		day   int
	}{
		{"digit 1 is 1900s", "9001011234567", 1990, time.January, 1},
		{"digit 2 is 1900s", "7210232260917", 1972, time.October, 23},
		{"digit 3 is 2000s", "0503153000000", 2005, time.March, 15},
		{"digit 4 is 2000s", "1212314000000", 2012, time.December, 31},
		{"leap day", "7202291000000", 1972, time.February, 29},
		{"feb 31 only range checked", "7202311000000", 1972, time.February, 31},
		{"non leap feb 29 kept", "7302291000000", 1973, time.February, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveBirthDate(tt.input, kst)
			require.True(t, ok)
			assert.Equal(t, tt.year, got.Year)
			assert.Equal(t, tt.month, got.Month)
			assert.Equal(t, tt.day, got.Day)
		})
	}
}

func TestDeriveBirthDate_Rejects(t *testing.T) {
	inputs := map[string]string{
		"sex digit 9":   "7210239991111",
		"sex digit 0":   "9001010234567",
		"sex digit 5":   "9001015234567",
		"month 00":      "9000011234567",
		"month 13":      "9013011234567",
		"day 00":        "9001001234567",
		"day 32":        "9001321234567",
		"short":         "900101123456",
		"non digit":     "9001O11234567",
		"empty":         "",
		"hyphenated":    "900101-123456",
		"trailing char": "9001011234567 ",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, ok := DeriveBirthDate(in, kst)
			assert.False(t, ok)
		})
	}
}

func TestBirthDate_ISO(t *testing.T) {
	bd, ok := DeriveBirthDate("9001011234567", kst)
	require.True(t, ok)
	assert.Equal(t, "1990-01-01T00:00:00+09:00", bd.ISO())
	assert.Equal(t, "1990-01-01", bd.DateString())

	parsed, err := time.Parse(time.RFC3339, bd.ISO())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(time.Date(1990, 1, 1, 0, 0, 0, 0, kst)))

	utc, ok := DeriveBirthDate("9001011234567", time.UTC)
	require.True(t, ok)
	assert.Equal(t, "1990-01-01T00:00:00Z", utc.ISO())
}

func TestBirthDate_ISOKeepsOutOfRangeDay(t *testing.T) {
	bd, ok := DeriveBirthDate("7202311000000", kst)
	require.True(t, ok)
	assert.Equal(t, "1972-02-31T00:00:00+09:00", bd.ISO())
	// the instant rolls forward, the fields do not
	assert.Equal(t, time.March, bd.Time().Month())
}

func TestRRN_MaskedAndSex(t *testing.T) {
	r := RRN("9001011234567")
	assert.Equal(t, "9001011******", r.Masked())
	assert.Equal(t, SexMale1900, r.Sex())
	assert.True(t, r.Sex().IsMale())

	assert.Equal(t, "*************", RRN("123").Masked())
	assert.Equal(t, SexCode(""), RRN("123").Sex())
	assert.True(t, RRN("").IsZero())
}

func TestSexCode(t *testing.T) {
	assert.True(t, SexCode("1").IsMale())
	assert.True(t, SexCode("3").IsMale())
	assert.True(t, SexCode("2").IsFemale())
	assert.True(t, SexCode("4").IsFemale())
	assert.False(t, SexCode("5").IsKnown())
	assert.NotEqual(t, SexMale1900, SexMale2000)
	assert.Equal(t, "F", SexFemale2000.Label())
	assert.Equal(t, "?", SexCode("").Label())
}

func TestSearchKeyIgnoresSexDigitBirthDateDoesNot(t *testing.T) {
	const rrn = "7210239991111"

	key, ok := DeriveSearchKey(rrn)
	require.True(t, ok)
	assert.Equal(t, "721023-9", key)

	_, ok = DeriveBirthDate(rrn, kst)
	assert.False(t, ok)
}
