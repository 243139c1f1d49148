// Package handlers implements the business logic behind the CLI commands.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/goliatone/go-onboarding/components/companies"
	"github.com/goliatone/go-onboarding/components/registration"
	"github.com/goliatone/go-onboarding/internal/config"
	"github.com/goliatone/go-onboarding/internal/metrics"
	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/renderers/vanilla"
)

// AssetsPath is where the embedded stylesheet is served.
const AssetsPath = "/assets/"

// ServeOptions carries the serve flags. Overrides names the flags the user
// set explicitly; only those replace file values.
type ServeOptions struct {
	ConfigPath  string
	Addr        string
	SeedFile    string
	LogLevel    string
	Development bool
	Overrides   map[string]bool
}

// Serve runs the HTTP server until ctx is cancelled or the process receives
// SIGINT/SIGTERM.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := loadServeConfig(opts)
	if err != nil {
		return err
	}

	logger, err := NewLogger(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, err := NewServer(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func loadServeConfig(opts ServeOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Overrides["addr"] {
		cfg.Addr = opts.Addr
	}
	if opts.Overrides["seed"] {
		cfg.SeedFile = opts.SeedFile
	}
	if opts.Overrides["log-level"] {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Overrides["dev"] {
		cfg.Development = opts.Development
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// NewServer wires the registration wizard, the company listing, the
// embedded assets, health and metrics endpoints onto one mux.
func NewServer(ctx context.Context, cfg config.Config, logger *zap.Logger, reg *prometheus.Registry) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	seed, err := company.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	store := company.NewMemoryStore(seed...)

	constraints, err := company.LoadConstraints(ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	renderer, err := vanilla.New(
		vanilla.WithStylesheet(AssetsPath+vanilla.StylesheetName),
		vanilla.WithConstraints(constraints),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	wizardOpts := []registration.OptionFn{
		registration.WithRoutePath(cfg.OnboardingPath),
		registration.WithSuccessPath(cfg.CompaniesPath),
		registration.WithCSRFCookie(cfg.CSRFCookie),
		registration.WithPulseDelay(cfg.PulseDelay),
		registration.WithRenderer(renderer),
		registration.WithRepository(store),
		registration.WithConstraints(constraints),
		registration.WithLogger(logger),
		registration.WithRecorder(recorder),
	}
	onboardingPath, err := registration.RegisterRoutes(mux, "", wizardOpts...)
	if err != nil {
		return nil, err
	}

	companiesPath, err := companies.RegisterRoutes(mux, "",
		companies.WithRoutePath(cfg.CompaniesPath),
		companies.WithCSRF(cfg.CSRFHeader, cfg.CSRFCookie),
		companies.WithRepository(store),
		companies.WithListRenderer(renderer),
		companies.WithEditor(registration.EditHandler(wizardOpts...)),
		companies.WithLogger(logger),
		companies.WithRecorder(recorder),
	)
	if err != nil {
		return nil, err
	}

	mux.Handle(AssetsPath, http.StripPrefix(AssetsPath, http.FileServer(http.FS(vanilla.AssetsFS()))))
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, onboardingPath, http.StatusFound)
	})

	logger.Info("routes registered",
		zap.String("onboarding", onboardingPath),
		zap.String("companies", companiesPath),
		zap.Int("companies_seeded", len(seed)),
	)
	return mux, nil
}
