package handler

import (
	"net/http"

	"github.com/ziaflow/marketing-lens/internal/usecases/reporting"
	"github.com/ziaflow/marketing-lens/pkg/apiErrors"
	"github.com/ziaflow/marketing-lens/pkg/log"
)

// DashboardService is the read surface the dashboard endpoint depends on.
type DashboardService = reporting.Reporter

func GetDashboard(service DashboardService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		tenantID := r.URL.Query().Get("tenant_id")
		if tenantID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingParameter, "tenant_id is required", nil)
			return
		}

		dashboard, err := service.Dashboard(r.Context(), tenantID)
		if err != nil {
			logger.WithError(err).WithField("tenant_id", tenantID).Error("dashboard: loading summary failed")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "loading dashboard data failed", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(dashboard); err != nil {
			logger.WithError(err).Error("dashboard: failed to encode response")
		}
	})
}
