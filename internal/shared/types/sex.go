package types

// SexCode is the sex/century code recorded for a person. Two codes map to
// each sex and the recorded code is kept as is.
type SexCode string

const (
	SexMale1900   SexCode = "1"
	SexFemale1900 SexCode = "2"
	SexMale2000   SexCode = "3"
	SexFemale2000 SexCode = "4"
)

// IsMale reports codes "1" and "3"
func (s SexCode) IsMale() bool {
	return s == SexMale1900 || s == SexMale2000
}

// IsFemale reports codes "2" and "4"
func (s SexCode) IsFemale() bool {
	return s == SexFemale1900 || s == SexFemale2000
}

// IsKnown reports whether s is one of the four recorded codes
func (s SexCode) IsKnown() bool {
	return s.IsMale() || s.IsFemale()
}

// Label is a short display label
func (s SexCode) Label() string {
	switch {
	case s.IsMale():
		return "M"
	case s.IsFemale():
		return "F"
	default:
		return "?"
	}
}
