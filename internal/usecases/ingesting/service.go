// Package ingesting routes inbound ingestion requests through credential
// resolution, the platform connector table and the performance sink.
package ingesting

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/ziaflow/marketing-lens/infrastructure/connector"
	"github.com/ziaflow/marketing-lens/infrastructure/repository"
	"github.com/ziaflow/marketing-lens/infrastructure/vault"
	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/pkg/apiErrors"
	"github.com/ziaflow/marketing-lens/pkg/log"
)

// dummyToken is substituted when the vault has no credential for the pair, so
// a misconfigured tenant degrades into a connector auth failure instead of a
// dispatcher failure.
const dummyToken = "dummy-token"

// Dispatcher validates, resolves credentials, fetches and persists. It is the
// single state machine behind the ingest endpoint and the scheduler.
type Dispatcher interface {
	Ingest(ctx context.Context, req domain.IngestionRequest) (*domain.IngestionResult, error)
}

type dispatcher struct {
	vault    vault.Client
	registry *connector.Registry
	rows     repository.PerformanceRepository
}

func NewDispatcher(
	vaultClient vault.Client,
	registry *connector.Registry,
	rows repository.PerformanceRepository,
) Dispatcher {
	return &dispatcher{
		vault:    vaultClient,
		registry: registry,
		rows:     rows,
	}
}

// CredentialKey is the vault naming convention for a tenant/platform pair.
func CredentialKey(tenantID, platformID string) string {
	return fmt.Sprintf("%s-%s-token", tenantID, platformID)
}

// Ingest runs one request to a terminal status. Validation failures return a
// client-classified error before any connector call; connector and transport
// failures surface as server-classified errors.
func (d *dispatcher) Ingest(ctx context.Context, req domain.IngestionRequest) (*domain.IngestionResult, error) {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id":   req.TenantID,
		"platform_id": req.PlatformID,
	})

	if req.TenantID == "" {
		return nil, apiErrors.New(apiErrors.ErrMissingParameter, "tenant_id is required")
	}
	if req.PlatformID == "" {
		return nil, apiErrors.New(apiErrors.ErrMissingParameter, "platform_id is required")
	}

	platform, ok := domain.ParsePlatform(req.PlatformID)
	if !ok {
		return nil, apiErrors.New(apiErrors.ErrUnknownPlatform, fmt.Sprintf("unknown platform %q", req.PlatformID))
	}

	token := d.resolveToken(ctx, logger, req.TenantID, req.PlatformID)

	conn, ok := d.registry.New(platform, token)
	if !ok {
		// ParsePlatform and the registry share the same closed set; reaching
		// this means the table lost an entry.
		return nil, apiErrors.New(apiErrors.ErrInternalServer, fmt.Sprintf("no connector registered for %s", platform))
	}

	accountRef := req.AccountRef
	if accountRef == "" {
		accountRef = req.TenantID
	}

	result, err := conn.Fetch(ctx, accountRef, req.Range)
	if err != nil {
		return nil, d.classifyFetchError(logger, platform, err)
	}

	if result.Kind == connector.KindSubmitted {
		logger.WithField("report_id", result.ReportID).Info("ingesting: report submitted, rows pending")
		return &domain.IngestionResult{
			TenantID: req.TenantID,
			Platform: platform,
			Status:   domain.IngestionPending,
			ReportID: result.ReportID,
		}, nil
	}

	if err := d.rows.SaveRows(ctx, req.TenantID, result.Rows); err != nil {
		// The fetch succeeded; a sink failure must not convert a delivered
		// payload into a failed ingestion.
		logger.WithError(err).Error("ingesting: persisting rows failed")
	}

	logger.WithField("row_count", len(result.Rows)).Info("ingesting: completed")
	return &domain.IngestionResult{
		TenantID: req.TenantID,
		Platform: platform,
		Status:   domain.IngestionCompleted,
		RowCount: len(result.Rows),
	}, nil
}

func (d *dispatcher) resolveToken(ctx context.Context, logger log.Logger, tenantID, platformID string) string {
	key := CredentialKey(tenantID, platformID)

	token, found, err := d.vault.Get(ctx, key)
	if err != nil {
		logger.WithError(err).WithField("secret_name", key).Warn("ingesting: credential lookup failed, using dummy token")
		return dummyToken
	}
	if !found || token == "" {
		logger.WithField("secret_name", key).Warn("ingesting: credential missing, using dummy token")
		return dummyToken
	}

	return token
}

func (d *dispatcher) classifyFetchError(logger log.Logger, platform domain.Platform, err error) error {
	var connErr *connector.ConnectorError
	if errors.As(err, &connErr) {
		if connErr.Status >= http.StatusBadRequest && connErr.Status < http.StatusInternalServerError {
			logger.WithField("status", connErr.Status).Warn("ingesting: platform rejected the request, credentials likely invalid or expired")
		}
		return apiErrors.Wrap(err, apiErrors.ErrConnectorFailure, fmt.Sprintf("%s rejected the request", platform))
	}

	logger.WithError(err).Error("ingesting: transport failure after retries")
	return apiErrors.Wrap(err, apiErrors.ErrTransportFailure, fmt.Sprintf("%s is unreachable", platform))
}
