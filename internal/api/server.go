package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/ziaflow/marketing-lens/internal/api/handler"
	"github.com/ziaflow/marketing-lens/internal/api/handler/router"
	"github.com/ziaflow/marketing-lens/internal/config"
	"github.com/ziaflow/marketing-lens/internal/scheduler"
	"github.com/ziaflow/marketing-lens/internal/usecases/analyzing"
	"github.com/ziaflow/marketing-lens/internal/usecases/ingesting"
	"github.com/ziaflow/marketing-lens/internal/usecases/reporting"
	"github.com/ziaflow/marketing-lens/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	dispatcher ingesting.Dispatcher,
	analyzer analyzing.Analyzer,
	reporter reporting.Reporter,
	ingestionSyncService *scheduler.IngestionSyncService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		IngestionSyncService: ingestionSyncService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Ingestion(dispatcher)...),
		router.WithRoutes(handler.Insights(analyzer)...),
		router.WithRoutes(handler.Dashboard(reporter)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.FunctionKey(config.FunctionKey),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Server execution failed")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Interrupt signal received")
	case <-ctx.Done():
		logrus.Info("Application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Starting graceful server shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
		return err
	}

	logrus.Info("Server stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
