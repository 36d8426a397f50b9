package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/accredian/referral-api/internal/auth"
	"github.com/accredian/referral-api/internal/config"
	"github.com/accredian/referral-api/internal/handlers"
	"github.com/accredian/referral-api/internal/mail"
	"github.com/accredian/referral-api/internal/middleware"
	"github.com/accredian/referral-api/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repos, token service, mailer and handlers into the chi router.
// mailer may be nil (outbound mail disabled).
func newRouter(db *sql.DB, mailer mail.Mailer, cfg config.Config) chi.Router {
	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpireMinutes)*time.Minute)

	authHandler := &handlers.AuthHandler{
		Users:  repo.NewUserRepo(db),
		Tokens: tokens,
	}
	referralHandler := &handlers.ReferralHandler{
		Referrals:        repo.NewReferralRepo(db),
		Mailer:           mailer,
		MailFailureFatal: cfg.MailFailureFatal,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	// Public
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWT(tokens))
		r.Post("/referral", referralHandler.Create)
		r.Get("/referrals", referralHandler.List)
	})

	return r
}
