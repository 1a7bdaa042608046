package types

import "strings"

// FormatPhone turns an 11 digit mobile number into DDD-DDDD-DDDD.
// Example: "01082591548" -> "010-8259-1548"
func FormatPhone(digits string) (string, bool) {
	if len(digits) != 11 || !isDigits(digits) {
		return "", false
	}
	return digits[:3] + "-" + digits[3:7] + "-" + digits[7:], true
}

// DigitsOnly drops every character that is not an ASCII digit
func DigitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
