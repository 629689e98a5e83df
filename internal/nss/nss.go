// Package nss formats the social-security identifiers shared with the civil
// status and employment authorities.
//
// An identifier reads YY-WW-SSSSS-KK: two-digit year, wilaya code (01..58),
// a five-digit series and a two-digit key. The key doubles as the simulation
// marker understood by the mock authorities: "00" is reported deceased and
// "99" is reported employed.
package nss

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	id "cnr/pkg/domain"
	dErrors "cnr/pkg/domain-errors"
)

// Simulation selects which authority outcome the generated key provokes.
type Simulation string

const (
	SimulationNormal   Simulation = "normal"
	SimulationDeceased Simulation = "deceased"
	SimulationEmployed Simulation = "employed"
)

const (
	KeyDeceased = "00"
	KeyEmployed = "99"

	minWilaya = 1
	maxWilaya = 58
	minSeries = 10000
	maxSeries = 99999
	minKey    = 10
	maxKey    = 88
)

// ParseSimulation accepts the canonical names plus the short aliases "dead"
// and "worker". An empty value means normal.
func ParseSimulation(s string) (Simulation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SimulationNormal):
		return SimulationNormal, nil
	case string(SimulationDeceased), "dead":
		return SimulationDeceased, nil
	case string(SimulationEmployed), "worker":
		return SimulationEmployed, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown simulation %q", s))
	}
}

// Generator produces identifiers. The zero value is not usable; use New.
type Generator struct {
	intN func(n int) int
	now  func() time.Time
}

type Option func(*Generator)

// WithRand replaces the random source. intN must return a value in [0, n).
func WithRand(intN func(n int) int) Option {
	return func(g *Generator) {
		g.intN = intN
	}
}

// WithClock replaces the clock used for the year component.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{
		intN: rand.IntN,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a fresh identifier for the given simulation profile.
// Uniqueness is not guaranteed here; the store rejects collisions.
func (g *Generator) Generate(sim Simulation) (id.ExternalID, error) {
	var key string
	switch sim {
	case SimulationNormal, "":
		key = fmt.Sprintf("%02d", g.between(minKey, maxKey))
	case SimulationDeceased:
		key = KeyDeceased
	case SimulationEmployed:
		key = KeyEmployed
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown simulation %q", sim))
	}

	year := g.now().Year() % 100
	wilaya := g.between(minWilaya, maxWilaya)
	series := g.between(minSeries, maxSeries)
	return id.ExternalID(fmt.Sprintf("%02d-%02d-%05d-%s", year, wilaya, series, key)), nil
}

// between returns a value in the closed range [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.intN(hi-lo+1)
}

// Key returns the trailing key of an identifier, or "" when it has none.
func Key(externalID id.ExternalID) string {
	s := externalID.String()
	i := strings.LastIndexByte(s, '-')
	if i < 0 || i == len(s)-1 {
		return ""
	}
	return s[i+1:]
}
