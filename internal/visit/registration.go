package visit

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/martclinic/kiosk/internal/person"
	"github.com/martclinic/kiosk/internal/shared/errors"
	"github.com/martclinic/kiosk/internal/shared/metrics"
	"github.com/martclinic/kiosk/internal/shared/types"
)

// DefaultInsuranceLabel is the GUBUN sent when none is configured
const DefaultInsuranceLabel = "요양"

// Queue tokens are multiples of tokenStep in [tokenStep, tokenStep*tokenSlots]
const (
	tokenStep  = 100
	tokenSlots = 400
)

// mobilePrefix is implied for every number typed at the kiosk
const mobilePrefix = "010"

// PhoneMode selects how the kiosk collects the phone number
type PhoneMode int

const (
	// PhoneSplit takes two 4-digit groups
	PhoneSplit PhoneMode = iota
	// PhoneSingle takes one 8-digit field
	PhoneSingle
)

func (m PhoneMode) String() string {
	if m == PhoneSingle {
		return "single"
	}
	return "split"
}

// ParsePhoneMode maps a config value to a PhoneMode
func ParsePhoneMode(s string) (PhoneMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "split":
		return PhoneSplit, nil
	case "single":
		return PhoneSingle, nil
	default:
		return PhoneSplit, fmt.Errorf("unknown phone mode %q", s)
	}
}

// PhoneEntry is what the patient typed, without the 010 prefix
type PhoneEntry struct {
	Parts []string
}

// SplitPhone is an entry from the two-field screen
func SplitPhone(first, second string) PhoneEntry {
	return PhoneEntry{Parts: []string{first, second}}
}

// SinglePhone is an entry from the one-field screen
func SinglePhone(digits string) PhoneEntry {
	return PhoneEntry{Parts: []string{digits}}
}

// Registrar builds and submits a visit for a confirmed person
type Registrar struct {
	repo      Repository
	mode      PhoneMode
	insurance string
	now       types.Clock
	intN      func(n int) int
	logger    *slog.Logger
}

// RegistrarOption customises a Registrar
type RegistrarOption func(*Registrar)

// WithPhoneMode sets the expected phone entry shape
func WithPhoneMode(m PhoneMode) RegistrarOption {
	return func(r *Registrar) { r.mode = m }
}

// WithInsuranceLabel sets GUBUN
func WithInsuranceLabel(label string) RegistrarOption {
	return func(r *Registrar) {
		if label != "" {
			r.insurance = label
		}
	}
}

// WithClock replaces the wall clock
func WithClock(c types.Clock) RegistrarOption {
	return func(r *Registrar) { r.now = c }
}

// WithRand replaces the token source. intN must return a value in [0, n).
func WithRand(intN func(n int) int) RegistrarOption {
	return func(r *Registrar) { r.intN = intN }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) RegistrarOption {
	return func(r *Registrar) { r.logger = l }
}

// NewRegistrar creates a registrar submitting to repo
func NewRegistrar(repo Repository, opts ...RegistrarOption) *Registrar {
	r := &Registrar{
		repo:      repo,
		mode:      PhoneSplit,
		insurance: DefaultInsuranceLabel,
		now:       types.SystemClock,
		intN:      rand.IntN,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(slog.String("component", "visit.registrar"))
	return r
}

// Mode returns the configured phone mode
func (r *Registrar) Mode() PhoneMode { return r.mode }

// Phone checks an entry against the phone mode and returns the formatted
// mobile number.
func (r *Registrar) Phone(entry PhoneEntry) (string, error) {
	var digits string
	switch r.mode {
	case PhoneSingle:
		if len(entry.Parts) != 1 || !fixedDigits(entry.Parts[0], 8) {
			return "", errors.Validation("Phone number must be 8 digits", map[string]string{"field": "PHONENUM"})
		}
		digits = entry.Parts[0]
	default:
		if len(entry.Parts) != 2 || !fixedDigits(entry.Parts[0], 4) || !fixedDigits(entry.Parts[1], 4) {
			return "", errors.Validation("Phone number must be two groups of 4 digits", map[string]string{"field": "PHONENUM"})
		}
		digits = entry.Parts[0] + entry.Parts[1]
	}
	phone, ok := types.FormatPhone(mobilePrefix + digits)
	if !ok {
		return "", errors.Validation("Invalid phone number", map[string]string{"field": "PHONENUM"})
	}
	return phone, nil
}

func fixedDigits(s string, n int) bool {
	return len(s) == n && types.DigitsOnly(s) == s
}

// Token draws a queue number
func (r *Registrar) Token() int {
	return tokenStep * (r.intN(tokenSlots) + 1)
}

// Build validates the inputs and assembles the visit without submitting
// it. A missing birth date yields AGE "Unknown" and does not block.
func (r *Registrar) Build(p person.Person, phone PhoneEntry) (Visit, error) {
	if !p.HasCode() {
		return Visit{}, errors.Validation("Person code is required", map[string]string{"field": "PCODE"})
	}
	number, err := r.Phone(phone)
	if err != nil {
		return Visit{}, err
	}

	now := r.now()
	stamp := types.LocalISO(now)
	serial := 1
	if p.SERIAL != nil {
		serial = *p.SERIAL
	}
	sex := string(p.Sex())
	if sex == "" {
		sex = DefaultSex
	}
	birth := p.Birth()

	return Visit{
		PCODE:    p.Code(),
		VISIDATE: stamp,
		VISITIME: stamp,
		PNAME:    p.Name(),
		SERIAL:   types.Ptr(serial),
		SEX:      sex,
		PBIRTH:   birth,
		AGE:      types.AgeString(birth, now),
		PHONENUM: types.Ptr(number),
		GUBUN:    types.Ptr(r.insurance),
		N:        types.Ptr(r.Token()),
		FIN:      types.Ptr(Blank),
		RESERVED: types.Ptr(Blank),
	}, nil
}

// Register builds the visit and posts it. The date-scoped visit list is
// stale afterwards; reloading it is up to the caller.
func (r *Registrar) Register(ctx context.Context, p person.Person, phone PhoneEntry) (Visit, error) {
	v, err := r.Build(p, phone)
	if err != nil {
		metrics.RecordRegistration(metrics.OutcomeRejected)
		return Visit{}, err
	}

	start := time.Now()
	if err := r.repo.Create(ctx, v); err != nil {
		metrics.RecordRegistration(metrics.OutcomeError)
		r.logger.WarnContext(ctx, "register visit failed",
			slog.Int("pcode", v.PCODE),
			slog.Any("error", err),
		)
		return Visit{}, err
	}
	metrics.RecordRegistration(metrics.OutcomeOK)
	r.logger.InfoContext(ctx, "visit registered",
		slog.Int("pcode", v.PCODE),
		slog.Int("token", v.Token()),
		slog.Duration("took", time.Since(start)),
	)
	return v, nil
}
