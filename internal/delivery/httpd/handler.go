package httpd

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/repository"
	"github.com/docudetect/docu-detect/internal/service"
	"github.com/docudetect/docu-detect/internal/service/auth"
	"github.com/docudetect/docu-detect/internal/storage"
	"github.com/docudetect/docu-detect/internal/worker"
)

type Handler struct {
	pipeline    *service.PipelineService
	authService *auth.Service
	history     repository.HistoryStore
	store       storage.Storage
	dispatcher  worker.EmailDispatcher
	maxUpload   int64
	logger      zerolog.Logger
}

func NewHandler(
	pipeline *service.PipelineService,
	authService *auth.Service,
	history repository.HistoryStore,
	store storage.Storage,
	dispatcher worker.EmailDispatcher,
	maxUpload int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		pipeline:    pipeline,
		authService: authService,
		history:     history,
		store:       store,
		dispatcher:  dispatcher,
		maxUpload:   maxUpload,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	// Health check
	router.Get("/health", h.HealthCheck)

	// Auth endpoints
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(h.Authenticate)

		r.Route("/pdf", func(r chi.Router) {
			r.Post("/upload", h.UploadDocument)
			r.Get("/report/{report_id}", h.DownloadReport)
			r.Post("/send-email/{report_id}", h.SendReportEmail)
		})

		r.Get("/history", h.GetHistory)
	})
}
