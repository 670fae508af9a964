package http

import (
	"net/http"

	"github.com/go-auth-trust/internal/application/challenge"
	"github.com/go-auth-trust/internal/application/session"
	"github.com/go-auth-trust/internal/application/trust"
	"github.com/go-auth-trust/internal/config"
	"github.com/go-auth-trust/internal/transport/http/handler"
	appmiddleware "github.com/go-auth-trust/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true, // session travels in a cookie
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — the endpoints that hit bcrypt or send SMS.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	provider := challenge.NewProvider(deps.ChallengeRepo, deps.SMSSender, cfg.ChallengeTTL, cfg.ChallengeTimeout)
	sessionSvc := session.NewService(deps.AccountRepo, deps.CredentialRepo, deps.JWTProvider)
	trustSvc := trust.NewService(deps.AccountRepo, deps.CredentialRepo, provider, deps.JWTProvider)

	cookies := handler.CookieConfig{Domain: cfg.CookieDomain, TTL: cfg.JWTExpiry}

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc, cookies)
	trustH := handler.NewTrustHandler(trustSvc, cookies, cfg.ReissueOnVerify)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/login", sessionH.Login)
		r.Post("/logout", sessionH.Logout)
		r.With(sensitiveRL.Limit).Post("/register", sessionH.Register)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))

			r.With(sensitiveRL.Limit).Post("/verification/start", trustH.StartVerification)
			r.Post("/verification/check", trustH.CheckVerification)
			r.Post("/subscription", trustH.Subscribe)
			r.Put("/password", trustH.ChangePassword)
			r.Put("/phone", trustH.UpdatePhone)
		})
	})

	return r
}
