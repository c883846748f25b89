// Package server assembles repositories, services and HTTP routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"equipinspect/internal/config"
	"equipinspect/internal/modules/admin"
	"equipinspect/internal/modules/auth"
	"equipinspect/internal/modules/checklist"
	"equipinspect/internal/modules/equipment"
	"equipinspect/internal/modules/inspection"
	"equipinspect/internal/modules/personnel"
	"equipinspect/internal/modules/reportdoc"
	"equipinspect/internal/pkg/cache"
	"equipinspect/internal/pkg/jwt"
	"equipinspect/internal/pkg/storage"
	"equipinspect/internal/repository"
)

// Deps are the external resources an App is built on.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Storage storage.Storage
	// Cache may be nil; tokens are then looked up in the database every time.
	Cache cache.TokenCache
	Log   *zap.Logger
}

// App holds the services shared by the HTTP server and the command line.
type App struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.Logger

	Auth      *auth.Service
	Admin     *admin.Service
	Checklist *checklist.Service

	handlers handlers
}

type handlers struct {
	auth       *auth.Handler
	admin      *admin.Handler
	equipment  *equipment.Handler
	personnel  *personnel.Handler
	checklist  *checklist.Handler
	inspection *inspection.Handler
	reportdoc  *reportdoc.Handler
}

func New(deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := deps.Config
	db := deps.DB

	accountRepo := repository.NewAccountRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	personnelRepo := repository.NewPersonnelRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	reportRepo := repository.NewReportRepository(db)
	dailyRepo := repository.NewDailyInspectionRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	authService := auth.NewService(
		accountRepo,
		tokenRepo,
		jwt.New(cfg.Auth.TokenSecret),
		deps.Cache,
		auth.Options{TokenTTL: cfg.Auth.TokenTTL, CacheTTL: cfg.Auth.CacheTTL},
		log.Named("auth"),
	)
	adminService := admin.NewService(accountRepo, authService, log.Named("admin"))
	checklistService := checklist.NewService(checklistRepo, log.Named("checklist"))

	renderer := reportdoc.NewRenderer(reportdoc.Options{Title: cfg.PDF.Title, FontPath: cfg.PDF.FontPath})

	return &App{
		cfg:       cfg,
		db:        db,
		log:       log,
		Auth:      authService,
		Admin:     adminService,
		Checklist: checklistService,
		handlers: handlers{
			auth:      auth.NewHandler(authService),
			admin:     admin.NewHandler(adminService),
			equipment: equipment.NewHandler(equipment.NewService(equipmentRepo, deps.Storage, log.Named("equipment"))),
			personnel: personnel.NewHandler(personnel.NewService(personnelRepo, deps.Storage, log.Named("personnel"))),
			checklist: checklist.NewHandler(checklistService),
			inspection: inspection.NewHandler(
				inspection.NewReportService(reportRepo, dailyRepo, equipmentRepo, personnelRepo, deps.Storage, log.Named("reports")),
				inspection.NewDailyService(dailyRepo, reportRepo, checklistRepo, log.Named("daily")),
				inspection.NewNoteService(noteRepo, reportRepo),
				inspection.NewAttachmentService(attachmentRepo, reportRepo, deps.Storage, log.Named("attachments")),
			),
			reportdoc: reportdoc.NewHandler(reportdoc.NewService(reportRepo, checklistRepo, renderer, log.Named("reportdoc"))),
		},
	}
}

// Run serves until ctx is cancelled, then shuts down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      a.Router(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.log.Info("server exited")
	return nil
}

func (a *App) shutdownTimeout() time.Duration {
	if a.cfg.Server.ShutdownTimeout > 0 {
		return a.cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}
