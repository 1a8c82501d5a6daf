// Package router sets up all HTTP routes and middleware chains for the
// AICMS API. Routes live under /api/v1 and are split into public and
// authenticated groups, with role guards on the write endpoints.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"aicms/internal/handlers"
	"aicms/internal/middleware"
	"aicms/internal/models"
)

// Handlers bundles the handler groups mounted by the router.
type Handlers struct {
	Auth     *handlers.Auth
	Content  *handlers.Content
	Media    *handlers.Media
	AI       *handlers.AI
	Delivery *handlers.Delivery
}

// Options configures the cross-cutting parts of the router.
type Options struct {
	Tokens       middleware.TokenParser
	LoginLimiter *middleware.RateLimiter // nil disables login rate limiting
	CORSOrigins  []string

	// UploadDir, when set, is served read-only at UploadURL. Used by the
	// local storage backend.
	UploadDir string
	UploadURL string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	if opts.UploadDir != "" && opts.UploadURL != "" {
		prefix := strings.TrimRight(opts.UploadURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, uploads(http.FileServer(http.Dir(opts.UploadDir)))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints.
		r.Get("/health", handlers.Health)
		r.Get("/delivery/{slug}", h.Delivery.Item)
		r.Group(func(r chi.Router) {
			if opts.LoginLimiter != nil {
				r.Use(opts.LoginLimiter.Middleware)
			}
			r.Post("/auth/login", h.Auth.Login)
		})

		// Everything else requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.Tokens))
			r.Use(middleware.NoStore)

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
				r.Post("/totp/setup", h.Auth.TOTPSetup)
				r.Post("/totp/enable", h.Auth.TOTPEnable)
			})

			r.Route("/content-types", func(r chi.Router) {
				r.Get("/", h.Content.ListTypes)
				r.Get("/{id}", h.Content.GetType)
				r.With(middleware.RequireRole(models.RoleAdmin)).Post("/", h.Content.CreateType)
			})

			r.Route("/content", func(r chi.Router) {
				r.Get("/", h.Content.List)
				r.Get("/{id}", h.Content.Get)
				r.Get("/{contentId}/media", h.Media.ContentMedia)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEditor)
					r.Post("/", h.Content.Create)
					r.Put("/{id}", h.Content.Update)
					r.Delete("/{id}", h.Content.Delete)
					r.Post("/{contentId}/media", h.Media.Attach)
				})
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", h.Media.List)
				r.Get("/{id}", h.Media.Get)
				r.With(middleware.RequireEditor).Post("/upload", h.Media.Upload)
				r.With(middleware.RequireEditor).Delete("/{id}", h.Media.Delete)
			})

			r.With(middleware.RequireEditor).Post("/ai/generate", h.AI.Generate)
		})
	})

	return r
}

// uploads serves stored files to other origins and hides directory indexes.
func uploads(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			handlers.NotFound(w, r)
			return
		}
		w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
		next.ServeHTTP(w, r)
	})
}
