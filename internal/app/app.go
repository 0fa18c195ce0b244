package app

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/config"
	"github.com/docudetect/docu-detect/internal/database"
	"github.com/docudetect/docu-detect/internal/delivery/httpd"
	"github.com/docudetect/docu-detect/internal/repository"
	"github.com/docudetect/docu-detect/internal/service"
	"github.com/docudetect/docu-detect/internal/service/analyzer"
	"github.com/docudetect/docu-detect/internal/service/auth"
	"github.com/docudetect/docu-detect/internal/service/citation"
	"github.com/docudetect/docu-detect/internal/service/extractor"
	"github.com/docudetect/docu-detect/internal/service/integration"
	"github.com/docudetect/docu-detect/internal/service/mailer"
	"github.com/docudetect/docu-detect/internal/service/report"
	"github.com/docudetect/docu-detect/internal/service/summarizer"
	"github.com/docudetect/docu-detect/internal/storage"
	"github.com/docudetect/docu-detect/internal/worker"
)

type App struct {
	server       *http.Server
	logger       zerolog.Logger
	config       *config.Config
	db           *sql.DB
	emailWorker  *worker.EmailWorker
	rabbitMQRepo repository.RabbitMQRepository
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := newStorage(cfg, log)
	if err != nil {
		return nil, err
	}

	history, db, err := newHistoryStore(cfg, log)
	if err != nil {
		return nil, err
	}

	userStore := repository.NewMemoryUserStore()
	authService := auth.NewService(userStore, cfg.Auth, log)

	model, err := summarizer.NewModel(cfg.Summarizer, log)
	if err != nil {
		return nil, err
	}

	ext := extractor.New(store, log)
	sum := summarizer.New(model, cfg.Summarizer, log)
	corpusPath := filepath.Join(cfg.Storage.BaseDir, cfg.Storage.CorpusDir)
	checker := analyzer.NewPlagiarismChecker(corpusPath, log)
	scholar := integration.NewScholarClient(cfg.Scholar, log)
	validator := citation.NewValidator(scholar, cfg.Scholar.MaxConcurrency, log)
	renderer := report.NewRenderer(store, log)

	pipeline := service.NewPipelineService(ext, sum, checker, validator, renderer, history, log)

	mailService := mailer.NewService(cfg.SMTP, store, log)

	var (
		dispatcher   worker.EmailDispatcher
		emailWorker  *worker.EmailWorker
		rabbitMQRepo repository.RabbitMQRepository
	)
	if cfg.RabbitMQ.URL != "" {
		rabbitMQRepo, err = repository.NewRabbitMQRepository(cfg.RabbitMQ.URL, log)
		if err != nil {
			return nil, err
		}

		queueDispatcher, err := worker.NewQueueDispatcher(rabbitMQRepo, mailService, cfg.RabbitMQ, log)
		if err != nil {
			return nil, err
		}
		dispatcher = queueDispatcher

		pool := worker.NewWorkerPool(cfg.Mailer.MaxWorkers, log)
		emailWorker = worker.NewEmailWorker(rabbitMQRepo, mailService, pool, cfg.RabbitMQ, log)
	} else {
		log.Info().Msg("RabbitMQ not configured, sending report emails inline")
		dispatcher = worker.NewInlineDispatcher(mailService)
	}

	handler := httpd.NewHandler(
		pipeline,
		authService,
		history,
		store,
		dispatcher,
		cfg.Server.MaxUploadSize,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:       server,
		logger:       log,
		config:       cfg,
		db:           db,
		emailWorker:  emailWorker,
		rabbitMQRepo: rabbitMQRepo,
	}, nil
}

func newStorage(cfg *config.Config, log zerolog.Logger) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		log.Info().Str("endpoint", cfg.Storage.MinIO.Endpoint).Msg("Using MinIO storage")
		return storage.NewMinIOStorage(cfg.Storage.MinIO)
	default:
		log.Info().Str("base_dir", cfg.Storage.BaseDir).Msg("Using local storage")
		return storage.NewLocalStorage(cfg.Storage.BaseDir)
	}
}

func newHistoryStore(cfg *config.Config, log zerolog.Logger) (repository.HistoryStore, *sql.DB, error) {
	if cfg.History.Backend != "postgres" {
		return repository.NewMemoryHistoryStore(), nil, nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Info().Msg("Database connection established")
	return repository.NewPostgresHistoryStore(db, log), db, nil
}

func (a *App) Run() error {
	if a.emailWorker != nil {
		if err := a.emailWorker.Start(context.Background()); err != nil {
			a.logger.Error().Err(err).Msg("Failed to start email worker")
			return err
		}
	}

	a.logger.Info().Msgf("Starting server on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down...")

	if a.emailWorker != nil {
		if err := a.emailWorker.Stop(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop email worker")
		}
	}

	if a.rabbitMQRepo != nil {
		if err := a.rabbitMQRepo.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		return err
	}

	a.logger.Info().Msg("Server stopped")
	return nil
}
