// Package dashboard serves the read-only kiosk display: today's queue
// counts and waitlist from the pollers, plus an RRN preview endpoint.
package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/martclinic/kiosk/internal/poller"
	"github.com/martclinic/kiosk/internal/shared/errors"
	"github.com/martclinic/kiosk/internal/shared/metrics"
	"github.com/martclinic/kiosk/internal/shared/middleware"
	"github.com/martclinic/kiosk/internal/shared/types"
	"github.com/martclinic/kiosk/internal/visit"
	"github.com/martclinic/kiosk/internal/waitlist"
)

// Options configures the router
type Options struct {
	RequestsPerSecond float64
	Burst             int
	CORS              middleware.CORSConfig
	Timeout           time.Duration
}

// DefaultOptions is what serve uses without overrides
func DefaultOptions() Options {
	return Options{
		RequestsPerSecond: 50,
		Burst:             100,
		CORS:              middleware.DefaultCORSConfig(),
		Timeout:           10 * time.Second,
	}
}

// Handler provides the dashboard endpoints
type Handler struct {
	visits   *poller.Feed[visit.Visit]
	waitlist *poller.Feed[waitlist.Entry]
	now      types.Clock
	loc      *time.Location
	logger   *slog.Logger
}

// NewHandler creates a dashboard over the two feeds
func NewHandler(visits *poller.Feed[visit.Visit], waits *poller.Feed[waitlist.Entry], now types.Clock, loc *time.Location, logger *slog.Logger) *Handler {
	if now == nil {
		now = types.SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		visits:   visits,
		waitlist: waits,
		now:      now,
		loc:      loc,
		logger:   logger.With(slog.String("component", "dashboard")),
	}
}

// Router wires the middleware stack and the routes
func (h *Handler) Router(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Timeout > 0 {
		r.Use(chimw.Timeout(opts.Timeout))
	}
	r.Use(middleware.SecurityHeaders)
	r.Use(metrics.Middleware)
	r.Use(middleware.RequestLogger(h.logger))
	r.Use(middleware.CORS(opts.CORS))
	if opts.RequestsPerSecond > 0 {
		r.Use(middleware.RateLimiter(opts.RequestsPerSecond, opts.Burst))
	}

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())
	r.Mount("/api", h.Routes())

	return r
}

// Routes registers the /api routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/today", func(r chi.Router) {
		r.Get("/visits", h.TodayVisits)
		r.Get("/waitlist", h.TodayWaitlist)
	})
	r.Get("/rrn/{rrn}", h.PreviewRRN)

	return r
}

// Health always answers while the process is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready reports whether both feeds have loaded at least once
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"visits":   feedCheck(h.visits.Ready()),
		"waitlist": feedCheck(h.waitlist.Ready()),
	}
	status := http.StatusOK
	for _, v := range checks {
		if v != "ready" {
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, map[string]any{"checks": checks})
}

func feedCheck(ok bool) string {
	if ok {
		return "ready"
	}
	return "waiting for first refresh"
}

// VisitsResponse is today's visit log
type VisitsResponse struct {
	Date    string        `json:"date"`
	Waiting int           `json:"waiting"`
	Visits  []visit.Visit `json:"visits"`
}

// TodayVisits returns the last polled visit list for today
func (h *Handler) TodayVisits(w http.ResponseWriter, r *http.Request) {
	visits := h.visits.Latest()
	if visits == nil {
		visits = []visit.Visit{}
	}
	writeJSON(w, http.StatusOK, VisitsResponse{
		Date:    types.CompactDate(h.now()),
		Waiting: len(visits),
		Visits:  visits,
	})
}

// WaitlistItem is one row on the queue display
type WaitlistItem struct {
	PCODE  int    `json:"pcode"`
	Label  string `json:"label"`
	Resid1 string `json:"resid1,omitempty"`
	Resid2 string `json:"resid2,omitempty"`
}

// WaitlistResponse is today's queue
type WaitlistResponse struct {
	Date    string         `json:"date"`
	Entries []WaitlistItem `json:"entries"`
}

// TodayWaitlist returns the last polled waitlist for today
func (h *Handler) TodayWaitlist(w http.ResponseWriter, r *http.Request) {
	entries := h.waitlist.Latest()
	items := make([]WaitlistItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, WaitlistItem{
			PCODE:  e.PCODE,
			Label:  e.Label(),
			Resid1: e.RESID1,
			Resid2: e.RESID2,
		})
	}
	writeJSON(w, http.StatusOK, WaitlistResponse{
		Date:    types.CompactDate(h.now()),
		Entries: items,
	})
}

// RRNPreview is what the kiosk shows before searching by national ID
type RRNPreview struct {
	Masked    string  `json:"masked"`
	SearchID  string  `json:"searchId"`
	BirthDate *string `json:"birthDate"`
	Age       string  `json:"age"`
}

// PreviewRRN derives the search key, birth date and age for a 13-digit
// RRN. The full number is never echoed back.
func (h *Handler) PreviewRRN(w http.ResponseWriter, r *http.Request) {
	raw := types.DigitsOnly(chi.URLParam(r, "rrn"))
	key, ok := types.DeriveSearchKey(raw)
	if !ok {
		writeError(w, errors.Validation("RRN must be 13 digits", map[string]string{"field": "rrn"}))
		return
	}

	preview := RRNPreview{
		Masked:   types.RRN(raw).Masked(),
		SearchID: key,
		Age:      types.UnknownAge,
	}
	if birth, ok := types.DeriveBirthDate(raw, h.loc); ok {
		iso := birth.ISO()
		preview.BirthDate = &iso
		preview.Age = types.AgeString(iso, h.now())
	}
	writeJSON(w, http.StatusOK, preview)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
