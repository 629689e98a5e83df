package eligibility_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cnr/internal/audit"
	"cnr/internal/authority/mock"
	"cnr/internal/beneficiary/models"
	"cnr/internal/beneficiary/store"
	"cnr/internal/eligibility"
	"cnr/internal/platform/config"
	"cnr/internal/verification"
	id "cnr/pkg/domain"
)

// harness wires the audit against the in-memory store and the mock
// authorities served over real HTTP.
type harness struct {
	store   *store.InMemory
	trail   *audit.InMemoryStore
	service *eligibility.Service
}

type harnessOptions struct {
	civilStatus http.Handler
	employment  http.Handler
	timeout     time.Duration
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.civilStatus == nil {
		opts.civilStatus = mock.NewCivilStatusRouter(mock.WithLogger(logger))
	}
	if opts.employment == nil {
		opts.employment = mock.NewEmploymentRouter(mock.WithLogger(logger))
	}
	if opts.timeout == 0 {
		opts.timeout = time.Second
	}
	civilSrv := httptest.NewServer(opts.civilStatus)
	t.Cleanup(civilSrv.Close)
	employmentSrv := httptest.NewServer(opts.employment)
	t.Cleanup(employmentSrv.Close)

	h := &harness{store: store.NewInMemory(), trail: audit.NewInMemoryStore()}
	civil := verification.NewCivilStatusClient(config.AuthorityConfig{BaseURL: civilSrv.URL, Timeout: opts.timeout}, verification.WithLogger(logger))
	employment := verification.NewEmploymentClient(config.AuthorityConfig{BaseURL: employmentSrv.URL, Timeout: opts.timeout}, verification.WithLogger(logger))

	svc, err := eligibility.NewService(h.store, civil, employment,
		eligibility.WithLogger(logger),
		eligibility.WithAuditPublisher(audit.NewPublisher(h.trail)),
	)
	require.NoError(t, err)
	h.service = svc
	return h
}

func (h *harness) enrol(t *testing.T, externalID, name string, pension float64) *models.Beneficiary {
	t.Helper()
	b, err := models.NewBeneficiary(id.NewBeneficiaryID(), id.ExternalID(externalID), name, pension, time.Now())
	require.NoError(t, err)
	require.NoError(t, h.store.Create(context.Background(), b))
	return b
}

func TestDeceasedScenario(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	b := h.enrol(t, "26-16-48213-00", "Ahmed Benali", 30000)

	got, err := h.service.RunAudit(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.Eligible)
	assert.False(t, got.Alive)
	assert.Contains(t, got.LegalStatus, "death confirmed")
	require.NotNil(t, got.Reversion)
	assert.Equal(t, 22500.0, got.Reversion.Amount)
	assert.Equal(t, "survivors of Ahmed Benali", got.Reversion.SuccessorName)

	again, err := h.service.RunAudit(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Reversion.ID, again.Reversion.ID, "re-audit keeps the single reversion")
	assert.Equal(t, got.LegalStatus, again.LegalStatus)
	assert.Equal(t, got.Eligible, again.Eligible)

	events, err := h.trail.ListByBeneficiary(ctx, b.ID)
	require.NoError(t, err)
	created := 0
	for _, e := range events {
		if e.Action == audit.ActionReversionCreated {
			created++
		}
	}
	assert.Equal(t, 1, created)
}

func TestSuspendedScenario(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	b := h.enrol(t, "26-16-48213-99", "Yacine Meziane", 30000)

	got, err := h.service.RunAudit(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, got.Alive)
	assert.True(t, got.Employed)
	assert.False(t, got.Eligible)
	assert.Contains(t, got.LegalStatus, "suspended")
	assert.Nil(t, got.Reversion)

	_, err = h.store.ReversionFor(context.Background(), b.ID)
	assert.Error(t, err)
}

func TestCompliantScenario(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	b := h.enrol(t, "26-16-48213-42", "Nadia Saidi", 30000)

	got, err := h.service.RunAudit(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, got.Eligible)
	assert.Equal(t, eligibility.StatusCompliant, got.LegalStatus)
}

func TestCivilStatusOutageFallsBackToCompliant(t *testing.T) {
	down := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	h := newHarness(t, harnessOptions{civilStatus: down})
	// The suffix would report a death if the registry were reachable.
	b := h.enrol(t, "26-16-48213-00", "Omar Kaci", 30000)

	got, err := h.service.RunAudit(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, got.Alive)
	assert.True(t, got.Eligible)
	assert.Nil(t, got.Reversion)
}

func TestConcurrentAuditsAreBoundedByOneTimeout(t *testing.T) {
	const (
		n       = 20
		timeout = 300 * time.Millisecond
	)
	hang := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	h := newHarness(t, harnessOptions{civilStatus: hang, employment: hang, timeout: timeout})

	ids := make([]id.BeneficiaryID, n)
	for i := range ids {
		ids[i] = h.enrol(t, fmt.Sprintf("26-16-%05d-42", 10000+i), "Beneficiary", 30000).ID
	}

	start := time.Now()
	var wg sync.WaitGroup
	results := make([]*models.Beneficiary, n)
	errs := make([]error, n)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = h.service.RunAudit(context.Background(), ids[i])
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	for i := range ids {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Eligible, "both authorities degraded means compliant")
	}
	// Sequential calls would take 2*n*timeout; concurrent ones take about one.
	assert.Less(t, elapsed, 4*timeout)
}

func TestConcurrentAuditsOnSameDeceasedBeneficiary(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	b := h.enrol(t, "26-16-48213-00", "Samira Hamdi", 30000)

	const n = 10
	var wg sync.WaitGroup
	reversionIDs := make([]id.ReversionID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := h.service.RunAudit(context.Background(), b.ID)
			if assert.NoError(t, err) && assert.NotNil(t, got.Reversion) {
				reversionIDs[i] = got.Reversion.ID
			}
		}(i)
	}
	wg.Wait()

	for _, rid := range reversionIDs[1:] {
		assert.Equal(t, reversionIDs[0], rid)
	}
	stored, err := h.store.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n+1), stored.Version)
}
