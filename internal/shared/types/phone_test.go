package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"01082591548", "010-8259-1548", true},
		{"01100000000", "011-0000-0000", true},
		{"0108259154", "", false},
		{"010825915480", "", false},
		{"010-8259-15", "", false},
		{"0108259154a", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := FormatPhone(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "01082591548", DigitsOnly("010-8259 1548"))
	assert.Equal(t, "", DigitsOnly("abc"))
}
