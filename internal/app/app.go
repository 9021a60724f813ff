package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/altis0725/insurance-ai-backend/db"
	"github.com/altis0725/insurance-ai-backend/internal/adapter/postgres"
	compliancerepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/compliance"
	documentrepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/document"
	extractionrepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/extraction"
	historyrepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/history"
	recordingrepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/recording"
	reminderrepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/reminder"
	templaterepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/template"
	userrepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/user"
	"github.com/altis0725/insurance-ai-backend/internal/adapter/provider/dify"
	"github.com/altis0725/insurance-ai-backend/internal/adapter/provider/monica"
	"github.com/altis0725/insurance-ai-backend/internal/auth"
	"github.com/altis0725/insurance-ai-backend/internal/config"
	authsvc "github.com/altis0725/insurance-ai-backend/internal/service/auth"
	compliancesvc "github.com/altis0725/insurance-ai-backend/internal/service/compliance"
	documentsvc "github.com/altis0725/insurance-ai-backend/internal/service/document"
	exportsvc "github.com/altis0725/insurance-ai-backend/internal/service/export"
	extractionsvc "github.com/altis0725/insurance-ai-backend/internal/service/extraction"
	historysvc "github.com/altis0725/insurance-ai-backend/internal/service/history"
	insightsvc "github.com/altis0725/insurance-ai-backend/internal/service/insight"
	pipelinesvc "github.com/altis0725/insurance-ai-backend/internal/service/pipeline"
	recordingsvc "github.com/altis0725/insurance-ai-backend/internal/service/recording"
	remindersvc "github.com/altis0725/insurance-ai-backend/internal/service/reminder"
	templatesvc "github.com/altis0725/insurance-ai-backend/internal/service/template"
	"github.com/altis0725/insurance-ai-backend/internal/storage"
	"github.com/altis0725/insurance-ai-backend/internal/transport/middleware"
	"github.com/altis0725/insurance-ai-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, builds the service graph and serves HTTP until ctx is
// cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(pool, db.Migrations, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	store, err := storage.NewStore(cfg.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("init audio storage: %w", err)
	}

	txManager := postgres.NewTxManager(pool)

	recordings := recordingrepo.New(pool)
	extractions := extractionrepo.New(pool)
	compliances := compliancerepo.New(pool)
	histories := historyrepo.New(pool)
	templates := templaterepo.New(pool)
	documents := documentrepo.New(pool)
	reminders := reminderrepo.New(pool)
	users := userrepo.New(pool)

	chatClient := monica.NewClient(cfg.LLM, logger)
	transcriber := dify.NewClient(cfg.Transcription, logger)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	extractor := extractionsvc.NewAdapter(chatClient, logger)
	checker := compliancesvc.NewAdapter(chatClient, logger)

	authService := authsvc.NewService(logger, users, jwtManager, cfg.Auth)
	recordingService := recordingsvc.NewService(logger, recordings, extractions, compliances, histories, store, txManager)
	pipelineService := pipelinesvc.NewService(logger, recordings, extractions, compliances, store, transcriber, extractor, checker)
	extractionService := extractionsvc.NewService(logger, recordings, extractions, histories, txManager)
	complianceService := compliancesvc.NewService(logger, recordings, compliances)
	historyService := historysvc.NewService(logger, recordings, histories)
	templateService := templatesvc.NewService(logger, templates, txManager)
	documentService := documentsvc.NewService(logger, recordings, extractions, templates, documents)
	reminderService := remindersvc.NewService(logger, reminders)
	insightService := insightsvc.NewService(logger, recordings, reminders, chatClient)
	exportService := exportsvc.NewService(logger, recordings)

	if err := templateService.EnsureDefault(ctx); err != nil {
		return fmt.Errorf("seed default template: %w", err)
	}

	handlers := rest.Handlers{
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
		Auth:       rest.NewAuthHandler(authService, logger),
		Recording:  rest.NewRecordingHandler(recordingService, pipelineService, historyService, exportService, cfg.Server.MaxUploadBytes, logger),
		Extraction: rest.NewExtractionHandler(extractionService, logger),
		Compliance: rest.NewComplianceHandler(complianceService, logger),
		Template:   rest.NewTemplateHandler(templateService, logger),
		Document:   rest.NewDocumentHandler(documentService, logger),
		Reminder:   rest.NewReminderHandler(reminderService, insightService, logger),
		Insight:    rest.NewInsightHandler(insightService, logger),
	}

	mux := rest.NewRouter(handlers)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(authService),
	)(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
