// Package scheduler runs the recurring ingestion sweep over the configured
// tenant/platform pairs.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/ziaflow/marketing-lens/internal/config"
	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/internal/usecases/ingesting"
	"github.com/ziaflow/marketing-lens/pkg/utils"
)

// syncPair is one "tenant:platform" entry from configuration.
type syncPair struct {
	TenantID   string
	PlatformID string
}

// IngestionSyncService schedules and executes the recurring ingestion of all
// configured tenant/platform pairs over the trailing window.
type IngestionSyncService struct {
	scheduler           *gocron.Scheduler
	config              config.IngestionSync
	dispatcher          ingesting.Dispatcher
	pairs               []syncPair
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

const syncLookbackDays = 7

func NewIngestionSyncService(
	dispatcher ingesting.Dispatcher,
	appConfig *config.Config,
) *IngestionSyncService {
	pairs := parsePairs(appConfig.IngestionSync.Pairs)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         appConfig.IngestionSync.CronSchedule,
		"pairs":                 len(pairs),
		"request_delay_seconds": appConfig.IngestionSync.RequestDelaySeconds,
		"max_concurrent_jobs":   appConfig.IngestionSync.MaxConcurrentJobs,
		"sync_enabled":          appConfig.IngestionSync.Enabled,
	}).Info("Ingestion sync scheduler configuration loaded")

	return &IngestionSyncService{
		scheduler:  gocron.NewScheduler(time.Local),
		config:     appConfig.IngestionSync,
		dispatcher: dispatcher,
		pairs:      pairs,
	}
}

// parsePairs drops malformed entries instead of failing startup; a typo in
// one pair must not take the whole sweep down.
func parsePairs(raw []string) []syncPair {
	pairs := make([]syncPair, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		tenantID, platformID, ok := strings.Cut(entry, ":")
		if !ok || tenantID == "" || platformID == "" {
			logrus.WithField("entry", entry).Warn("Ignoring malformed ingestion sync pair, expected tenant:platform")
			continue
		}
		pairs = append(pairs, syncPair{TenantID: tenantID, PlatformID: platformID})
	}
	return pairs
}

// Start registers the cron job and runs the scheduler until ctx is done.
func (s *IngestionSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Ingestion sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting ingestion sync scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllPairs(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduling ingestion sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping ingestion sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *IngestionSyncService) syncAllPairs(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Ingestion sync already running, skipping")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	if len(s.pairs) == 0 {
		logrus.Info("No tenant/platform pairs configured for ingestion sync")
		return
	}

	runID, _ := utils.GenerateID()

	dateRange := domain.TrailingDays(startTime, syncLookbackDays)
	logrus.WithFields(logrus.Fields{
		"run_id":     runID,
		"pairs":      len(s.pairs),
		"start_date": dateRange.Since.Format(time.DateOnly),
		"end_date":   dateRange.Until.Format(time.DateOnly),
	}).Info("Starting ingestion sync sweep")

	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, pair := range s.pairs {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(p syncPair) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			s.syncPair(ctx, runID, p, dateRange)

			time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
		}(pair)
	}

	wg.Wait()

	logrus.WithFields(logrus.Fields{
		"run_id":   runID,
		"duration": time.Since(startTime).String(),
		"pairs":    len(s.pairs),
	}).Info("Ingestion sync sweep completed")

	s.lastSyncCompletedAt = time.Now()
}

func (s *IngestionSyncService) syncPair(ctx context.Context, runID string, pair syncPair, dateRange domain.DateRange) {
	logger := logrus.WithFields(logrus.Fields{
		"run_id":      runID,
		"tenant_id":   pair.TenantID,
		"platform_id": pair.PlatformID,
	})

	result, err := s.dispatcher.Ingest(ctx, domain.IngestionRequest{
		TenantID:   pair.TenantID,
		PlatformID: pair.PlatformID,
		Range:      dateRange,
	})
	if err != nil {
		logger.WithError(err).Error("Ingestion sync failed for pair")
		return
	}

	logger.WithFields(logrus.Fields{
		"status":    result.Status,
		"row_count": result.RowCount,
	}).Info("Ingestion sync completed for pair")
}

// TriggerManualSync starts a sweep outside the cron schedule.
func (s *IngestionSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Ingestion sync already running, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual ingestion sync")
	go s.syncAllPairs(context.Background())
}

// GetStatus reports the scheduler state for the status endpoint.
func (s *IngestionSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_pairs":             len(s.pairs),
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
