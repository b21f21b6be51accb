package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ziaflow/marketing-lens/infrastructure/connector"
	"github.com/ziaflow/marketing-lens/infrastructure/database/postgres"
	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/infrastructure/repository"
	"github.com/ziaflow/marketing-lens/infrastructure/vault"
	"github.com/ziaflow/marketing-lens/internal/api"
	"github.com/ziaflow/marketing-lens/internal/config"
	"github.com/ziaflow/marketing-lens/internal/scheduler"
	"github.com/ziaflow/marketing-lens/internal/usecases/analyzing"
	"github.com/ziaflow/marketing-lens/internal/usecases/analyzing/generation"
	"github.com/ziaflow/marketing-lens/internal/usecases/ingesting"
	"github.com/ziaflow/marketing-lens/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level %q, falling back to info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	if cfg.DryRun() {
		logrus.Warn("Running in dry mode: secrets are mocked and no live credentials are used")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	performanceRepo := repository.NewPerformanceRepository(pgConn)
	insightRepo := repository.NewInsightRepository(pgConn)

	requester := httpclient.New()

	vaultName := cfg.Vault.Name
	if cfg.DryRun() {
		// Dry mode forces the mock vault even when a vault name is set.
		vaultName = ""
	}
	vaultClient := vault.New(vaultName, cfg.Vault.Token, requester)

	registry := connector.NewRegistry(cfg, requester)
	dispatcher := ingesting.NewDispatcher(vaultClient, registry, performanceRepo)

	generator := generation.FromConfig(cfg)
	analyzer := analyzing.NewService(generator, performanceRepo, insightRepo)

	reporter := reporting.NewService(performanceRepo)

	ingestionSyncService := scheduler.NewIngestionSyncService(dispatcher, cfg)
	if err := ingestionSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start the ingestion sync scheduler")
	}

	server, err := api.New(
		cfg,
		dispatcher,
		analyzer,
		reporter,
		ingestionSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
