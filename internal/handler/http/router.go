package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// RateLimit is requests per IP per minute. Zero disables limiting.
	RateLimit int
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	payrollHandler PayrollHandler,
	employeeHandler EmployeeHandler,
	mestriHandler MestriHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, 1*time.Minute))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/payroll", func(r chi.Router) {
			// Authenticated by a short-lived token in the query string
			r.Get("/months/{month}/stream", payrollHandler.Stream)

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)

				r.Get("/summaries", payrollHandler.Summaries)
				r.Get("/stream-token", payrollHandler.GetStreamToken)
				r.Get("/months/{month}", payrollHandler.GetMonth)
				r.Get("/months/{month}/export", payrollHandler.Export)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/months/{month}/employees/{empID}", payrollHandler.UpdateRecord)
					r.Post("/months/{month}/entries", payrollHandler.CreateManualEntry)
					r.Post("/months/{month}/import", payrollHandler.ImportRoster)
				})
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.List)
				r.Get("/{empID}", employeeHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", employeeHandler.Create)
					r.Put("/{empID}", employeeHandler.Update)
					r.Put("/{empID}/status", employeeHandler.SetStatus)
				})
			})

			r.Route("/mestris", func(r chi.Router) {
				r.Get("/", mestriHandler.List)
				r.Get("/{mestriID}", mestriHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", mestriHandler.Create)
					r.Put("/{mestriID}", mestriHandler.Update)
				})
			})
		})
	})
	return r
}
