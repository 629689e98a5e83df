// Package mock serves stand-ins for the civil-status and employment
// authorities. Outcomes are decided by the identifier suffix so scenarios
// can be scripted through enrolment.
package mock

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"cnr/internal/nss"
	"cnr/pkg/platform/httputil"
)

const version = "1.0-mock"

// CivilStatusResponse is the contract of GET /verify/{id}.
type CivilStatusResponse struct {
	Identifier  string     `json:"identifier"`
	Alive       bool       `json:"alive"`
	DateOfDeath *time.Time `json:"date_of_death"`
	BirthPlace  *string    `json:"birth_place,omitempty"`
}

// EmploymentResponse is the contract of GET /employment/{id}.
type EmploymentResponse struct {
	Identifier    string   `json:"identifier"`
	Employed      bool     `json:"employed"`
	Employer      *string  `json:"employer"`
	Sector        *string  `json:"sector,omitempty"`
	MonthlySalary *float64 `json:"monthly_salary,omitempty"`
}

type config struct {
	logger  *slog.Logger
	now     func() time.Time
	latency time.Duration
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithLatency delays every verification answer. The delay is abandoned when
// the caller goes away.
func WithLatency(d time.Duration) Option {
	return func(c *config) {
		c.latency = d
	}
}

func newConfig(opts []Option) config {
	c := config{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewCivilStatusRouter reports a death for identifiers ending in "00".
func NewCivilStatusRouter(opts ...Option) http.Handler {
	c := newConfig(opts)
	r := chi.NewRouter()
	r.Get("/health", health("civil status", "interior and local government"))
	r.Get("/", root("civil status", "/verify/{id}"))
	r.Get("/verify/{id}", func(w http.ResponseWriter, req *http.Request) {
		externalID := chi.URLParam(req, "id")
		if !c.wait(req) {
			return
		}
		c.logger.InfoContext(req.Context(), "civil status request", "external_id", externalID)

		place := "Algiers"
		resp := CivilStatusResponse{Identifier: externalID, Alive: true, BirthPlace: &place}
		if strings.HasSuffix(externalID, nss.KeyDeceased) {
			died := c.now()
			resp.Alive = false
			resp.DateOfDeath = &died
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	})
	return r
}

// NewEmploymentRouter reports salaried activity for identifiers ending in "99".
func NewEmploymentRouter(opts ...Option) http.Handler {
	c := newConfig(opts)
	r := chi.NewRouter()
	r.Get("/health", health("employment", "labour, employment and social security"))
	r.Get("/", root("employment", "/employment/{id}"))
	r.Get("/employment/{id}", func(w http.ResponseWriter, req *http.Request) {
		externalID := chi.URLParam(req, "id")
		if !c.wait(req) {
			return
		}
		c.logger.InfoContext(req.Context(), "employment request", "external_id", externalID)

		resp := EmploymentResponse{Identifier: externalID}
		if strings.HasSuffix(externalID, nss.KeyEmployed) {
			employer := "SONELGAZ"
			sector := "energy"
			salary := 45000.0
			resp.Employed = true
			resp.Employer = &employer
			resp.Sector = &sector
			resp.MonthlySalary = &salary
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	})
	return r
}

// wait applies the configured latency; false means the client went away.
func (c config) wait(req *http.Request) bool {
	if c.latency <= 0 {
		return true
	}
	select {
	case <-time.After(c.latency):
		return true
	case <-req.Context().Done():
		return false
	}
}

func health(service, ministry string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"service":  service,
			"status":   "healthy",
			"ministry": ministry,
			"version":  version,
		})
	}
}

func root(service, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"message":  service + " authority ready",
			"endpoint": endpoint,
		})
	}
}
