package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/internal/usecases/ingesting"
	"github.com/ziaflow/marketing-lens/pkg/apiErrors"
	"github.com/ziaflow/marketing-lens/pkg/log"
	"github.com/ziaflow/marketing-lens/pkg/utils"
)

const defaultIngestWindowDays = 7

// Ingest runs one ingestion request to completion. The answer is plain text:
// validation problems are 400, connector or transport failures are 500.
func Ingest(dispatcher ingesting.Dispatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		query := r.URL.Query()
		tenantID := query.Get("tenant_id")
		platformID := query.Get("platform_id")

		logger.WithFields(log.Fields{
			"tenant_id":   tenantID,
			"platform_id": platformID,
		}).Info("ingest: request received")

		dateRange, err := parseIngestRange(query.Get("start_date"), query.Get("end_date"))
		if err != nil {
			logger.WithError(err).Warn("ingest: invalid date parameter")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, err := dispatcher.Ingest(r.Context(), domain.IngestionRequest{
			TenantID:   tenantID,
			PlatformID: platformID,
			AccountRef: query.Get("account_ref"),
			Range:      dateRange,
		})
		if err != nil {
			if apiErrors.IsClientError(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			logger.WithError(err).Error("ingest: dispatch failed")
			http.Error(w, fmt.Sprintf("Ingestion failed for %s on %s", tenantID, platformID), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		switch result.Status {
		case domain.IngestionPending:
			fmt.Fprintf(w, "Report submitted for %s on %s: %s", result.TenantID, result.Platform, result.ReportID)
		default:
			fmt.Fprintf(w, "Ingested %d records for %s on %s", result.RowCount, result.TenantID, result.Platform)
		}
	})
}

// parseIngestRange resolves explicit start/end dates, defaulting to the
// trailing week ending yesterday when both are absent.
func parseIngestRange(startStr, endStr string) (domain.DateRange, error) {
	start, err := utils.ParseDate(startStr)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", startStr)
	}

	end, err := utils.ParseDate(endStr)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", endStr)
	}

	if start.IsZero() && end.IsZero() {
		return domain.TrailingDays(time.Now(), defaultIngestWindowDays), nil
	}
	if end.IsZero() {
		end = time.Now().AddDate(0, 0, -1)
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -(defaultIngestWindowDays - 1))
	}
	if end.Before(start) {
		return domain.DateRange{}, fmt.Errorf("end_date precedes start_date")
	}

	return domain.DateRange{Since: start, Until: end}, nil
}
