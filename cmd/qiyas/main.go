package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	adapthttp "qiyas/internal/adapter/http"
	"qiyas/internal/adapter/memory"
	"qiyas/internal/adapter/postgres"
	"qiyas/internal/adapter/sqlite"
	"qiyas/internal/app"
	"qiyas/internal/config"
	"qiyas/internal/domain"
	"qiyas/internal/platform/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("QIYAS_CONFIG"))
	if err != nil {
		return err
	}
	logger.Setup(cfg.Server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = store.close() }()

	formula, err := domain.ParseFormula(cfg.Metrics.BodyFatFormula)
	if err != nil {
		return err
	}
	unit, err := domain.ParseUnit(cfg.Metrics.DefaultUnit)
	if err != nil {
		return err
	}

	recordSvc := app.NewRecordService(store.records, unit)
	profileSvc := app.NewProfileService(store.profiles)
	summarySvc := app.NewSummaryService(store.records, store.profiles, app.SummaryOptions{
		Formula:      formula,
		WindowDays:   cfg.Metrics.TrendWindowDays,
		HistoryLimit: cfg.Metrics.HistoryLimit,
	})
	authSvc := app.NewAuthService(store.users, store.sessions, cfg.Auth.SessionTTL)

	srv := adapthttp.New(recordSvc, profileSvc, summarySvc, authSvc).
		WithDefaultUnit(unit).
		WithSessionTTL(cfg.Auth.SessionTTL).
		WithLogger(slog.Default())
	if store.pinger != nil {
		srv = srv.WithPinger(store.pinger)
	}
	if cfg.Auth.Disabled {
		slog.Warn("authentication disabled")
		srv = srv.WithoutAuth()
	}
	if cfg.Auth.OIDC.Enabled() {
		oc, err := newOIDC(ctx, cfg.Auth.OIDC)
		if err != nil {
			return fmt.Errorf("oidc: %w", err)
		}
		srv = srv.WithOIDC(oc)
	}

	if cfg.Auth.PurgeInterval > 0 {
		go purgeSessions(ctx, authSvc, cfg.Auth.PurgeInterval)
	}

	httpSrv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpSrv.Addr, "storage", cfg.Storage.Driver)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

type storage struct {
	records  domain.RecordRepository
	profiles domain.ProfileRepository
	users    domain.UserRepository
	sessions domain.SessionRepository
	pinger   adapthttp.Pinger
	close    func() error
}

func openStorage(cfg config.StorageConfig) (*storage, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &storage{db, db, db, sqlite.NewSessionRepo(db), db, db.Close}, nil
	case "postgres":
		db, err := postgres.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &storage{db, db, db, postgres.NewSessionRepo(db), db, db.Close}, nil
	case "memory":
		slog.Warn("using in-memory storage; data is lost on restart")
		db := memory.New()
		return &storage{db, db, db, db.NewSessionRepo(), nil, func() error { return nil }}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func newOIDC(ctx context.Context, cfg config.OIDCConfig) (adapthttp.OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func purgeSessions(ctx context.Context, auth *app.AuthService, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := auth.PurgeExpired(ctx); err != nil {
				slog.Warn("purge expired sessions", "error", err)
			}
		}
	}
}
