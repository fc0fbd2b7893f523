package http

import (
	"log/slog"
	"os"

	"github.com/Horattiu/RemediumFarm-sub000/internal/handler/http/middleware"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// JWTService enables bearer verification on /api/v1 when set.
	JWTService jwt.Service
}

func NewRouter(
	cfg RouterConfig,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	reportHandler ReportHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// The stream authenticates with its own query token.
		r.Get("/events", eventsHandler.Stream)

		r.Group(func(r chi.Router) {
			if cfg.JWTService != nil {
				r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(cfg.JWTService.JWTAuth()))
			}
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Get("/events/token", eventsHandler.GetSSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/", attendanceHandler.Submit)
				r.Get("/", attendanceHandler.List)
				r.Route("/{employeeID}/{day}", func(r chi.Router) {
					r.Get("/", attendanceHandler.Get)
					r.Delete("/", attendanceHandler.Delete)
					r.Delete("/entries/{workplaceID}", attendanceHandler.RemoveEntry)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", leaveHandler.CreateRequest)
				r.Get("/", leaveHandler.ListRequests)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Put("/", leaveHandler.UpdateRequest)
					r.Delete("/", leaveHandler.DeleteRequest)
				})
			})

			r.Get("/stats", reportHandler.Stats)
		})
	})
	return r
}

// NewLogger builds the JSON slog logger in the ECS layout httplog expects.
func NewLogger(level slog.Level, app, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("env", env),
	)
}
