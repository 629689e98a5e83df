package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cnr/internal/audit"
	beneficiaryhandler "cnr/internal/beneficiary/handler"
	beneficiaryservice "cnr/internal/beneficiary/service"
	"cnr/internal/beneficiary/store"
	"cnr/internal/eligibility"
	eligibilityhandler "cnr/internal/eligibility/handler"
	"cnr/internal/nss"
	"cnr/internal/platform/config"
	"cnr/internal/platform/httpserver"
	"cnr/internal/platform/logger"
	"cnr/internal/platform/metrics"
	"cnr/internal/platform/postgres"
	"cnr/internal/platform/redis"
	httptransport "cnr/internal/transport/http"
	"cnr/internal/verification"
)

const (
	serviceName    = "cnr"
	serviceVersion = "1.0.0"
	auditQueueSize = 1024
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// infra holds the backing resources chosen from configuration.
type infra struct {
	records eligibility.Store
	enrol   beneficiaryservice.Store
	trail   audit.Store
	locker  eligibility.Locker
	checks  map[string]httptransport.HealthCheck
	closers []func() error
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backing, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, closeFn := range backing.closers {
			_ = closeFn()
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	// Trail writes go through a worker so a slow sink never delays an audit.
	queue := make(chan audit.Event, auditQueueSize)
	publisher := audit.NewPublisher(backing.trail, audit.WithQueue(queue))
	worker := audit.NewWorker(backing.trail, queue, log)
	workerDone := make(chan struct{})
	workerCtx, stopWorker := context.WithCancel(context.Background())
	go func() {
		defer close(workerDone)
		_ = worker.Run(workerCtx)
	}()

	civilStatus := verification.NewCivilStatusClient(cfg.CivilStatus,
		verification.WithLogger(log), verification.WithMetrics(m))
	employment := verification.NewEmploymentClient(cfg.Employment,
		verification.WithLogger(log), verification.WithMetrics(m))

	auditService, err := eligibility.NewService(backing.records, civilStatus, employment,
		eligibility.WithLogger(log),
		eligibility.WithMetrics(m),
		eligibility.WithAuditPublisher(publisher),
		eligibility.WithLocker(backing.locker),
		eligibility.WithPolicy(eligibility.PolicyFromConfig(cfg.Policy)),
	)
	if err != nil {
		return err
	}
	enrolment, err := beneficiaryservice.New(backing.enrol, nss.New(),
		beneficiaryservice.WithLogger(log),
		beneficiaryservice.WithMetrics(m),
		beneficiaryservice.WithTrail(publisher),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:  log,
		Metrics: m,
		Health: httptransport.Health{
			Service: serviceName,
			Version: serviceVersion,
			Authorities: map[string]string{
				string(verification.AuthorityCivilStatus): cfg.CivilStatus.BaseURL,
				string(verification.AuthorityEmployment):  cfg.Employment.BaseURL,
			},
			Checks: backing.checks,
		},
	},
		beneficiaryhandler.New(enrolment, log),
		eligibilityhandler.New(auditService, log),
	)

	srv := httpserver.New(cfg.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.Addr,
			"civil_status_url", cfg.CivilStatus.BaseURL,
			"employment_url", cfg.Employment.BaseURL,
			"postgres", cfg.DatabaseURL != "",
			"redis", cfg.Redis.URL != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			stopWorker()
			<-workerDone
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	stopWorker()
	<-workerDone
	return err
}

// buildInfra picks Postgres over the in-memory store when DATABASE_URL is
// set, and Redis locks over in-process locks when REDIS_URL is set.
func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	b := &infra{checks: map[string]httptransport.HealthCheck{}}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		records := store.NewPostgres(db)
		b.records, b.enrol = records, records
		b.trail = audit.NewPostgresStore(db)
		b.checks["database"] = pingDB(db)
		b.closers = append(b.closers, db.Close)
	} else {
		records := store.NewInMemory()
		b.records, b.enrol = records, records
		b.trail = audit.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		for _, closeFn := range b.closers {
			_ = closeFn()
		}
		return nil, err
	}
	if client != nil {
		b.locker = eligibility.NewRedisLocker(client.Client,
			eligibility.WithLockTTL(cfg.Redis.LockTTL),
			eligibility.WithLockLogger(log),
		)
		b.checks["redis"] = client.Health
		b.closers = append(b.closers, client.Close)
	} else {
		b.locker = eligibility.NewKeyedLocker()
	}
	return b, nil
}

func pingDB(db *sql.DB) httptransport.HealthCheck {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
