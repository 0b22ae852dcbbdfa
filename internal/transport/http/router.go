package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-baby-cry/internal/metrics"
	"github.com/pribylovaa/go-baby-cry/internal/transport/http/handlers"
	"github.com/pribylovaa/go-baby-cry/internal/transport/http/middleware"
)

// Options - параметры сборки HTTP-роутера.
type Options struct {
	Logger        *slog.Logger
	Metrics       *metrics.Metrics // nil - без HTTP-метрик.
	Timeout       time.Duration
	UploadTimeout time.Duration // <= 0 - как Timeout.
	BasePath      string        // например, "/api"; если пустой - роуты регистрируются на корне.
	MaxBodyBytes  int64         // <= 0 - handlers.DefaultMaxBodyBytes.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(opts.Metrics),
		middleware.RequestID(), // до Logging: логгер берёт id из заголовка
		middleware.Logging(opts.Logger),
		middleware.Metrics(opts.Metrics),
		middleware.Timeout(middleware.TimeoutPolicy{Default: opts.Timeout, Upload: opts.UploadTimeout}),
	)

	h := handlers.New(svc, opts.MaxBodyBytes)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes - единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// babies
	r.Get("/owners/{owner_id}/babies", h.ListBabies)
	r.Post("/owners/{owner_id}/babies", h.CreateBaby)
	r.Get("/babies/{id}", h.GetBaby)
	r.Patch("/babies/{id}", h.UpdateBaby)
	r.Delete("/babies/{id}", h.DeleteBaby)

	// avatars
	r.Post("/owners/{owner_id}/avatars", h.UploadAvatar)
	r.Post("/avatars/sign", h.SignAvatar)

	// recordings
	r.Get("/owners/{owner_id}/recordings", h.ListRecordings)
	r.Post("/owners/{owner_id}/babies/{id}/recordings", h.UploadRecording)
	r.Delete("/recordings/{id}", h.DeleteRecording)
}
