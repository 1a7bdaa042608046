package visit

import (
	"encoding/json"

	"github.com/martclinic/kiosk/internal/shared/types"
)

// DefaultSex is used when a visit arrives or is built without SEX
const DefaultSex = "1"

// Blank is the placeholder the server expects in FIN and RESERVED
const Blank = " "

// Visit is one row of the daily visit log
type Visit struct {
	PCODE    int     `json:"PCODE"`
	VISIDATE string  `json:"VISIDATE"`
	VISITIME string  `json:"VISITIME"`
	PNAME    string  `json:"PNAME"`
	SERIAL   *int    `json:"SERIAL,omitempty"`
	SEX      string  `json:"SEX"`
	PBIRTH   string  `json:"PBIRTH"`
	AGE      string  `json:"AGE"`
	PHONENUM *string `json:"PHONENUM,omitempty"`
	// GUBUN is the insurance type label
	GUBUN *string `json:"GUBUN,omitempty"`
	// N is the queue token handed to the patient
	N        *int    `json:"N,omitempty"`
	FIN      *string `json:"FIN,omitempty"`
	RESERVED *string `json:"RESERVED,omitempty"`
}

// UnmarshalJSON fills SEX with DefaultSex when the field is absent or empty
func (v *Visit) UnmarshalJSON(data []byte) error {
	type wire Visit
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.SEX == "" {
		w.SEX = DefaultSex
	}
	*v = Visit(w)
	return nil
}

// Sex returns the sex code
func (v Visit) Sex() types.SexCode { return types.SexCode(v.SEX) }

// Token returns N, or 0 when absent
func (v Visit) Token() int { return types.Deref(v.N) }

// Phone returns PHONENUM, or "" when absent
func (v Visit) Phone() string { return types.Deref(v.PHONENUM) }
