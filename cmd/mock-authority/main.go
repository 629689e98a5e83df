package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cnr/internal/authority/mock"
	"cnr/internal/platform/httpserver"
	"cnr/internal/platform/logger"
)

// mock-authority serves one of the two stand-in authorities:
//
//	mock-authority -kind civil-status -addr :8001
//	mock-authority -kind employment   -addr :8002
func main() {
	kind := flag.String("kind", "civil-status", "authority to serve: civil-status or employment")
	addr := flag.String("addr", "", "listen address (default :8001 or :8002 by kind)")
	latency := flag.Duration("latency", 0, "artificial delay added to every verification answer")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.New(*logLevel, "json").With("authority", *kind)
	opts := []mock.Option{mock.WithLogger(log), mock.WithLatency(*latency)}

	var handler http.Handler
	listen := *addr
	switch *kind {
	case "civil-status", "etat-civil":
		handler = mock.NewCivilStatusRouter(opts...)
		if listen == "" {
			listen = ":8001"
		}
	case "employment", "cnas":
		handler = mock.NewEmploymentRouter(opts...)
		if listen == "" {
			listen = ":8002"
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown -kind %q\n", *kind)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(listen, handler)
	go func() {
		log.Info("starting mock authority", "addr", listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
