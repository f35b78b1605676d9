package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// RouterOptions holds the HTTP policy knobs from config.
type RouterOptions struct {
	CORSOrigins    []string
	CSP            string
	BodyLimitBytes int64
	RequestTimeout time.Duration

	// MetricsPath and MetricsHandler are optional; both must be set to expose metrics.
	MetricsPath    string
	MetricsHandler http.Handler
}

// NewRouter wires middleware and routes.
//
// GET  /                          service banner
// POST /api/auth/telegram         upsert profile from Telegram login
// GET  /api/profile/{id}          profile lookup
// POST /api/pinata/upload         pin base64 content
// GET  /api/pinata/data/{hash}    gateway passthrough
// POST /api/progress              score/level/time accounting
// POST /api/notifications         activity log ingestion
// GET  /api/telegram/chat/{id}    Bot API getChat
// GET  /api/health                liveness + profile count
func NewRouter(h *Handler, opts RouterOptions, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(
		chimiddleware.RealIP,
		TraceID(),
		RequestLog(logger),
		Recover(logger),
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}),
		SecurityHeaders(opts.CSP),
		BodyLimit(opts.BodyLimitBytes),
		Timeout(opts.RequestTimeout),
	)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/", h.Root)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/telegram", h.AuthTelegram)
		r.Get("/profile/{id}", h.GetProfile)
		r.Post("/pinata/upload", h.PinataUpload)
		r.Get("/pinata/data/{hash}", h.PinataData)
		r.Post("/progress", h.Progress)
		r.Post("/notifications", h.Notifications)
		r.Get("/telegram/chat/{id}", h.TelegramChat)
		r.Get("/health", h.Health)
	})

	if opts.MetricsPath != "" && opts.MetricsHandler != nil {
		r.Method(http.MethodGet, opts.MetricsPath, opts.MetricsHandler)
	}
	return r
}
