package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/leave-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterDeps struct {
	JWTService   jwt.Service
	Auth         AuthHandler
	Leave        LeaveHandler
	Holiday      HolidayHandler
	Dashboard    DashboardHandler
	Notification NotificationHandler

	Env        string
	UploadsDir string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-tracker"),
		slog.String("version", "v1.0.0"),
		slog.String("env", deps.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Stored attachments are served statically.
	if deps.UploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadsDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
		})

		// SSE stream authenticates with its own query-parameter token.
		r.Get("/notifications/stream", deps.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))

			r.Post("/auth/sse-token", deps.Auth.SSEToken)

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", deps.Leave.ListTypes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", deps.Leave.CreateType)
				})
			})

			r.Route("/balances", func(r chi.Router) {
				r.Get("/my", deps.Leave.GetMyBalances)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/provision", deps.Leave.ProvisionBalances)
				})
			})

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", deps.Leave.CreateRequest)
				r.Get("/my", deps.Leave.GetMyRequests)
				r.Get("/{id}", deps.Leave.GetRequest)
				r.Post("/{id}/cancel", deps.Leave.CancelRequest)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", deps.Leave.ListRequests)
					r.Post("/approve", deps.Leave.ApproveRequest)
					r.Post("/reject", deps.Leave.RejectRequest)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", deps.Holiday.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", deps.Holiday.Create)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", deps.Notification.List)
				r.Post("/read-all", deps.Notification.MarkAllAsRead)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCEO)
				r.Get("/dashboard/summary", deps.Dashboard.Summary)
			})
		})
	})

	return r
}
