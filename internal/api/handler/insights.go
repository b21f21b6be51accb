package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/internal/usecases/analyzing"
	"github.com/ziaflow/marketing-lens/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetInsights runs the analysis pipeline for a tenant. The endpoint always
// answers 200; pipeline failures are carried in the body's error field.
func GetInsights(analyzer analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		query := r.URL.Query()
		tenantID := query.Get("tenant_id")
		analysisType := domain.ParseAnalysisType(query.Get("analysis_type"))

		logger.WithFields(log.Fields{
			"tenant_id":     tenantID,
			"analysis_type": analysisType,
		}).Info("insights: analysis requested")

		result := analyzer.AnalyzeTenant(r.Context(), tenantID, query.Get("context"), analysisType)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("insights: failed to encode response")
		}
	})
}
