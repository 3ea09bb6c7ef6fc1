package cli

import (
	"context"
	"fmt"
	"log/slog"

	"basegraph.app/issuesync/common/id"
	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/common/otel"
	"basegraph.app/issuesync/core/config"
	"basegraph.app/issuesync/core/db"
	"basegraph.app/issuesync/internal/service"
	"basegraph.app/issuesync/internal/service/issue_tracker"
	"basegraph.app/issuesync/internal/store"
)

// runtime holds everything a command needs once the environment is loaded.
type runtime struct {
	cfg       config.Config
	db        *db.DB
	services  *service.Services
	telemetry *otel.Telemetry
}

func openRuntime(ctx context.Context, serviceType config.ServiceType) (*runtime, error) {
	cfg, err := config.Load(serviceType)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	telemetry, err := otel.Setup(ctx, cfg, serviceType)
	if err != nil {
		return nil, fmt.Errorf("initializing otel: %w", err)
	}
	logger.Setup(cfg)

	if err := id.Init(config.ServiceTypeSync); err != nil {
		return nil, fmt.Errorf("initializing id generator: %w", err)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	var jira *issue_tracker.JiraClient
	if cfg.Jira.Enabled() {
		jira = issue_tracker.NewJiraClient(issue_tracker.JiraConfigFrom(cfg.Jira, cfg.Sync))
	}

	return &runtime{
		cfg: cfg,
		db:  database,
		services: service.NewServices(service.ServicesConfig{
			Stores:   store.NewStores(database.Queries()),
			TxRunner: service.NewTxRunner(database),
			Jira:     jira,
		}),
		telemetry: telemetry,
	}, nil
}

func (r *runtime) Close(ctx context.Context) {
	r.db.Close()
	if err := r.telemetry.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "otel shutdown error", "error", err)
	}
}
