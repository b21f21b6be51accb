package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/ziaflow/marketing-lens/internal/scheduler"
	"github.com/ziaflow/marketing-lens/pkg/apiErrors"
)

const CronJobTypeIngestion = "ingestion"

// CronJobServices holds the schedulers exposed for manual triggering.
type CronJobServices struct {
	IngestionSyncService *scheduler.IngestionSyncService
}

// RunCronJob triggers one scheduler sweep outside its cron schedule.
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		switch cronType {
		case CronJobTypeIngestion:
			if services.IngestionSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "ingestion sync service unavailable", nil)
				return
			}
			services.IngestionSyncService.TriggerManualSync()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidParameter, "unknown cron job type: "+cronType, nil)
			return
		}

		logrus.WithField("cron_type", cronType).Info("cron: manual sync triggered")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "triggered", "type": cronType}); err != nil {
			logrus.WithError(err).Error("cron: failed to encode response")
		}
	}
}

// GetCronStatus reports the current state of every scheduler.
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.IngestionSyncService != nil {
			status[CronJobTypeIngestion] = services.IngestionSyncService.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logrus.WithError(err).Error("cron: failed to encode status response")
		}
	}
}
