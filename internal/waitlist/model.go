package waitlist

import (
	"strconv"

	"github.com/martclinic/kiosk/internal/shared/types"
)

// UnnamedLabel is shown for entries queued without a display name
const UnnamedLabel = "직원접수 Unknown"

// Entry is one row of the wait queue
type Entry struct {
	PCODE       int     `json:"PCODE"`
	VISIDATE    string  `json:"VISIDATE"`
	RESID1      string  `json:"RESID1"`
	RESID2      string  `json:"RESID2"`
	DISPLAYNAME *string `json:"DISPLAYNAME,omitempty"`
}

// Key identifies an entry
type Key struct {
	PCODE    int
	VISIDATE string
}

func (k Key) String() string {
	return strconv.Itoa(k.PCODE) + "/" + k.VISIDATE
}

// Key returns the compound key of e
func (e Entry) Key() Key {
	return Key{PCODE: e.PCODE, VISIDATE: e.VISIDATE}
}

// Label is the name to put on the queue display
func (e Entry) Label() string {
	if name := types.Deref(e.DISPLAYNAME); name != "" {
		return name
	}
	return UnnamedLabel
}
