package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/gramv/onbdev-sub001/internal/adapters/httpapi"
	"github.com/gramv/onbdev-sub001/internal/adapters/notify"
	"github.com/gramv/onbdev-sub001/internal/adapters/repository/postgres"
	"github.com/gramv/onbdev-sub001/internal/core/audit"
	"github.com/gramv/onbdev-sub001/internal/core/formupdate"
	"github.com/gramv/onbdev-sub001/internal/core/onboarding"
	"github.com/gramv/onbdev-sub001/internal/core/token"
	"github.com/gramv/onbdev-sub001/internal/platform/config"
	pg "github.com/gramv/onbdev-sub001/internal/platform/db/postgres"
	"github.com/gramv/onbdev-sub001/internal/platform/logging"
	"github.com/gramv/onbdev-sub001/internal/platform/server"
	"github.com/gramv/onbdev-sub001/internal/platform/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.ServiceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	shutdownTelemetry := telemetry.Setup(cfg.ServiceName, logger)
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	sessionRepo := postgres.NewOnboardingSessionRepository(dbPool)
	submissionStore := postgres.NewStepSubmissionStore(dbPool)
	formUpdateRepo := postgres.NewFormUpdateSessionRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	auditStore := postgres.NewAuditStore(dbPool)

	recorder := audit.NewRecorder(auditStore, logger)
	notifier := notify.NewLogNotifier(logger)

	onboardingSvc := onboarding.NewService(
		sessionRepo, submissionStore, employeeRepo,
		recorder, notifier, nil, token.New, txManager,
	)
	formUpdateSvc := formupdate.NewService(
		formUpdateRepo, employeeRepo,
		recorder, nil, token.New, txManager,
	)

	handler := httpapi.NewHandler(onboardingSvc, formUpdateSvc, logger)
	httpServer := server.New(cfg.Server.ListenAddr, handler.Router(), logger, cfg.Server.ShutdownTimeout)

	if err := httpServer.Run(ctx); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}
