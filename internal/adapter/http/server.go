package adapthttp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"qiyas/internal/app"
	"qiyas/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the single sign-on provider. A zero value disables SSO.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	records  *app.RecordService
	profiles *app.ProfileService
	summary  *app.SummaryService
	authSvc  *app.AuthService

	oidcConfig  OIDCConfig
	disableAuth bool
	defaultUnit domain.Unit
	sessionTTL  time.Duration
	pinger      Pinger
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a Server wired to the given application services.
func New(rs *app.RecordService, ps *app.ProfileService, ss *app.SummaryService, as *app.AuthService) *Server {
	return &Server{
		records:     rs,
		profiles:    ps,
		summary:     ss,
		authSvc:     as,
		defaultUnit: domain.UnitCm,
		sessionTTL:  app.DefaultSessionTTL,
		logger:      slog.Default(),
		now:         time.Now,
	}
}

// WithoutAuth disables the auth middleware. Every request is served
// anonymously.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// WithOIDC enables single sign-on through the given provider.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// WithDefaultUnit sets the unit of new records that do not name one.
func (s *Server) WithDefaultUnit(u domain.Unit) *Server {
	if u != "" {
		s.defaultUnit = u
	}
	return s
}

// WithSessionTTL sets the lifetime of the session cookie.
func (s *Server) WithSessionTTL(ttl time.Duration) *Server {
	if ttl > 0 {
		s.sessionTTL = ttl
	}
	return s
}

// WithPinger makes the health endpoint check storage.
func (s *Server) WithPinger(p Pinger) *Server {
	s.pinger = p
	return s
}

// WithLogger replaces the request logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	if l != nil {
		s.logger = l
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(withNoCache)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/setup", s.handleSetupUser)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Get("/config", s.handleConfig)
			r.Get("/sso/login", s.handleSSOLogin)
			r.Get("/sso/callback", s.handleSSOCallback)
			r.With(s.authMiddleware).Get("/me", s.handleMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handlePutProfile)

			r.Get("/records", s.handleListRecords)
			r.Post("/records", s.handleCreateRecord)
			r.Delete("/records", s.handleDeleteAllRecords)
			r.Get("/records/{id}", s.handleGetRecord)
			r.Put("/records/{id}", s.handleUpdateRecord)
			r.Delete("/records/{id}", s.handleDeleteRecord)

			r.Get("/weight/today", s.handleWeightTodayGet)
			r.Put("/weight/today", s.handleWeightTodayPut)

			r.Get("/summary/today", s.handleSummaryToday)
			r.Get("/summary/results", s.handleSummaryResults)
			r.Get("/summary/fields/{field}/history", s.handleFieldHistory)

			r.Get("/stats", s.handleStats)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// today is the current calendar day in the server's local time zone.
func (s *Server) today() time.Time {
	return domain.DayOf(s.now().In(time.Local))
}
