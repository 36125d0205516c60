package main

import (
	"database/sql"
	"net/http"

	"github.com/crucial707/blogspace/internal/auth"
	"github.com/crucial707/blogspace/internal/config"
	"github.com/crucial707/blogspace/internal/handlers"
	"github.com/crucial707/blogspace/internal/middleware"
	"github.com/crucial707/blogspace/internal/repo"
	"github.com/crucial707/blogspace/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repos, services and handlers onto a chi router.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	return buildRouter(db, cfg, middleware.PerMinute(cfg.AuthRatePerMinute))
}

func buildRouter(db *sql.DB, cfg config.Config, limiter *middleware.IPRateLimiter) http.Handler {
	userRepo := repo.NewUserRepo(db)
	blogRepo := repo.NewBlogRepo(db)
	postRepo := repo.NewPostRepo(db)
	auditRepo := repo.NewAuditRepo(db)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL())

	authHandler := &handlers.AuthHandler{
		Accounts: service.NewAccountService(userRepo, blogRepo, postRepo, hasher, tokens, auditRepo),
	}
	blogHandler := &handlers.BlogHandler{Blogs: service.NewBlogService(blogRepo, auditRepo)}
	postHandler := &handlers.PostHandler{Posts: service.NewPostService(blogRepo, postRepo, auditRepo)}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}
	healthHandler := &handlers.HealthHandler{DB: db}

	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/test-db", healthHandler.TestDB)

		requireAuth := middleware.JWTMiddleware(tokens)

		r.Route("/auth", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/register", authHandler.Register)
			r.With(limiter.Middleware).Post("/login", authHandler.Login)
			r.With(requireAuth).Put("/password", authHandler.ChangePassword)
			r.With(requireAuth).Delete("/account", authHandler.DeleteAccount)
			r.With(requireAuth).Get("/activity", auditHandler.ListActivity)
		})

		r.Route("/blogs", func(r chi.Router) {
			r.With(requireAuth).Get("/me", blogHandler.Mine)
			r.Get("/{subdomain}", blogHandler.BySubdomain)
			r.With(requireAuth).Put("/{id}", blogHandler.Update)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/{id}", postHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", postHandler.List)
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
			})
		})
	})

	return r
}
