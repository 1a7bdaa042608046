package person

import "github.com/martclinic/kiosk/internal/shared/types"

// Person is a patient record as the clinic API sends it. Every field is
// optional on the wire; nil means absent.
type Person struct {
	PCODE     *int    `json:"PCODE,omitempty"`
	FCODE     *int    `json:"FCODE,omitempty"`
	PNAME     *string `json:"PNAME,omitempty"`
	PIDNUM    *string `json:"PIDNUM,omitempty"`
	PIDNUM2   *string `json:"PIDNUM2,omitempty"`
	OLDIDNUM  *string `json:"OLDIDNUM,omitempty"`
	SEX       *string `json:"SEX,omitempty"`
	RELATION  *string `json:"RELATION,omitempty"`
	SERIAL    *int    `json:"SERIAL,omitempty"`
	RELATION2 *string `json:"RELATION2,omitempty"`
	CRIPPLED  *string `json:"CRIPPLED,omitempty"`
	VINFORM   *string `json:"VINFORM,omitempty"`
	// PBIRTH is an ISO date or date-time
	PBIRTH *string `json:"PBIRTH,omitempty"`
	// MEMO1 holds the phone number
	MEMO1     *string `json:"MEMO1,omitempty"`
	AGREE     *string `json:"AGREE,omitempty"`
	PERINFO   *string `json:"PERINFO,omitempty"`
	JAEHAN    *string `json:"JAEHAN,omitempty"`
	SEARCHID  *string `json:"SEARCHID,omitempty"`
	PCCHECK   *string `json:"PCCHECK,omitempty"`
	PSNIDT    *string `json:"PSNIDT,omitempty"`
	PSNID     *string `json:"PSNID,omitempty"`
	LASTCHECK *string `json:"LASTCHECK,omitempty"`
	CARDCHECK *string `json:"CARDCHECK,omitempty"`
}

// Code returns PCODE, or 0 when absent
func (p Person) Code() int { return types.Deref(p.PCODE) }

// Name returns PNAME, or "" when absent
func (p Person) Name() string { return types.Deref(p.PNAME) }

// Sex returns the recorded sex code, or "" when absent
func (p Person) Sex() types.SexCode { return types.SexCode(types.Deref(p.SEX)) }

// Birth returns PBIRTH, or "" when absent
func (p Person) Birth() string { return types.Deref(p.PBIRTH) }

// HasCode reports whether the record carries a usable PCODE
func (p Person) HasCode() bool { return p.PCODE != nil && *p.PCODE > 0 }

// Clone returns a deep copy so callers can edit without aliasing
func (p Person) Clone() Person {
	c := p
	c.PCODE = clonePtr(p.PCODE)
	c.FCODE = clonePtr(p.FCODE)
	c.PNAME = clonePtr(p.PNAME)
	c.PIDNUM = clonePtr(p.PIDNUM)
	c.PIDNUM2 = clonePtr(p.PIDNUM2)
	c.OLDIDNUM = clonePtr(p.OLDIDNUM)
	c.SEX = clonePtr(p.SEX)
	c.RELATION = clonePtr(p.RELATION)
	c.SERIAL = clonePtr(p.SERIAL)
	c.RELATION2 = clonePtr(p.RELATION2)
	c.CRIPPLED = clonePtr(p.CRIPPLED)
	c.VINFORM = clonePtr(p.VINFORM)
	c.PBIRTH = clonePtr(p.PBIRTH)
	c.MEMO1 = clonePtr(p.MEMO1)
	c.AGREE = clonePtr(p.AGREE)
	c.PERINFO = clonePtr(p.PERINFO)
	c.JAEHAN = clonePtr(p.JAEHAN)
	c.SEARCHID = clonePtr(p.SEARCHID)
	c.PCCHECK = clonePtr(p.PCCHECK)
	c.PSNIDT = clonePtr(p.PSNIDT)
	c.PSNID = clonePtr(p.PSNID)
	c.LASTCHECK = clonePtr(p.LASTCHECK)
	c.CARDCHECK = clonePtr(p.CARDCHECK)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Pagination is the server's paging block
type Pagination struct {
	Total           int  `json:"total"`
	CurrentPage     int  `json:"currentPage"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Page is one page of the person listing
type Page struct {
	Data       []Person   `json:"data"`
	Pagination Pagination `json:"pagination"`
}
