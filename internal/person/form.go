package person

import (
	"time"

	"github.com/martclinic/kiosk/internal/shared/types"
)

// Consent values stored in AGREE
const (
	ConsentGiven   = "1"
	ConsentRefused = "0"
)

// Form is a person draft edited one field at a time. Every editable wire
// field has its own setter. Not safe for concurrent use.
type Form struct {
	p   Person
	loc *time.Location
}

// NewForm starts an empty draft. loc is the zone birth dates derived from
// an RRN are expressed in; nil means time.Local.
func NewForm(loc *time.Location) *Form {
	return &Form{loc: loc}
}

// FormFrom starts a draft from an existing record
func FormFrom(p Person, loc *time.Location) *Form {
	return &Form{p: p.Clone(), loc: loc}
}

// Person returns a copy of the draft
func (f *Form) Person() Person { return f.p.Clone() }

// Reset discards the draft
func (f *Form) Reset() { f.p = Person{} }

func (f *Form) SetCode(pcode int) { f.p.PCODE = types.Ptr(pcode) }
func (f *Form) SetFamily(fcode int) { f.p.FCODE = types.Ptr(fcode) }
func (f *Form) SetSerial(serial int) { f.p.SERIAL = types.Ptr(serial) }
func (f *Form) SetName(name string) { f.p.PNAME = types.Ptr(name) }
func (f *Form) SetBirth(iso string) { f.p.PBIRTH = types.Ptr(iso) }
func (f *Form) SetIDNumber(v string) { f.p.PIDNUM = types.Ptr(v) }
func (f *Form) SetIDNumber2(v string) { f.p.PIDNUM2 = types.Ptr(v) }
func (f *Form) SetOldIDNumber(v string) { f.p.OLDIDNUM = types.Ptr(v) }
func (f *Form) SetSex(code types.SexCode) { f.p.SEX = types.Ptr(string(code)) }
func (f *Form) SetRelation(v string) { f.p.RELATION = types.Ptr(v) }
func (f *Form) SetRelation2(v string) { f.p.RELATION2 = types.Ptr(v) }
func (f *Form) SetDisability(v string) { f.p.CRIPPLED = types.Ptr(v) }
func (f *Form) SetVisitInform(v string) { f.p.VINFORM = types.Ptr(v) }
func (f *Form) SetPrivacyInfo(v string) { f.p.PERINFO = types.Ptr(v) }
func (f *Form) SetRestriction(v string) { f.p.JAEHAN = types.Ptr(v) }
func (f *Form) SetSearchKey(v string) { f.p.SEARCHID = types.Ptr(v) }
func (f *Form) SetPCCheck(v string) { f.p.PCCHECK = types.Ptr(v) }
func (f *Form) SetPSNIDT(v string) { f.p.PSNIDT = types.Ptr(v) }
func (f *Form) SetPSNID(v string) { f.p.PSNID = types.Ptr(v) }
func (f *Form) SetLastCheck(v string) { f.p.LASTCHECK = types.Ptr(v) }
func (f *Form) SetCardCheck(v string) { f.p.CARDCHECK = types.Ptr(v) }

// SetConsent records AGREE as "1" or "0"
func (f *Form) SetConsent(agreed bool) {
	if agreed {
		f.p.AGREE = types.Ptr(ConsentGiven)
		return
	}
	f.p.AGREE = types.Ptr(ConsentRefused)
}

// SetRRN stores the raw RRN in OLDIDNUM and fills PBIRTH and SEARCHID
// from it. An RRN without a readable birth date leaves PBIRTH empty; a
// malformed one leaves SEARCHID unchanged.
func (f *Form) SetRRN(rrn string) {
	f.p.OLDIDNUM = types.Ptr(rrn)

	if bd, ok := types.DeriveBirthDate(rrn, f.loc); ok {
		f.p.PBIRTH = types.Ptr(bd.ISO())
	} else {
		f.p.PBIRTH = types.Ptr("")
	}

	if key, ok := types.DeriveSearchKey(rrn); ok {
		f.p.SEARCHID = types.Ptr(key)
	}
}

// SetPhone stores the digits of raw in MEMO1, formatted as DDD-DDDD-DDDD
// once 11 digits are present.
func (f *Form) SetPhone(raw string) {
	digits := types.DigitsOnly(raw)
	if formatted, ok := types.FormatPhone(digits); ok {
		f.p.MEMO1 = types.Ptr(formatted)
		return
	}
	f.p.MEMO1 = types.Ptr(digits)
}
