package ingesting

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziaflow/marketing-lens/infrastructure/connector"
	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	repomocks "github.com/ziaflow/marketing-lens/infrastructure/repository/mocks"
	vaultmocks "github.com/ziaflow/marketing-lens/infrastructure/vault/mocks"
	"github.com/ziaflow/marketing-lens/internal/config"
	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func testRegistry(baseURL string) *connector.Registry {
	cfg := &config.Config{
		Platforms: config.Platforms{
			MetaURL:          baseURL,
			GoogleAdsURL:     baseURL,
			SearchConsoleURL: baseURL,
			AnalyticsDataURL: baseURL,
			TikTokURL:        baseURL,
			LinkedInURL:      baseURL,
			RedditURL:        baseURL,
			MicrosoftURL:     baseURL,
		},
	}
	requester := httpclient.New(httpclient.WithSleep(func(time.Duration) {}))
	return connector.NewRegistry(cfg, requester)
}

func testRequest(platformID string) domain.IngestionRequest {
	return domain.IngestionRequest{
		TenantID:   "acme",
		PlatformID: platformID,
		AccountRef: "12345",
		Range: domain.DateRange{
			Since: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Until: time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestIngest_ValidationFailsBeforeAnyConnectorCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	upstreamCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
	}))
	defer server.Close()

	vaultClient := vaultmocks.NewMockClient(ctrl)
	rowsRepo := repomocks.NewMockPerformanceRepository(ctrl)
	d := NewDispatcher(vaultClient, testRegistry(server.URL), rowsRepo)

	tests := []struct {
		name     string
		req      domain.IngestionRequest
		wantCode string
	}{
		{
			name:     "missing tenant_id",
			req:      domain.IngestionRequest{PlatformID: "Meta"},
			wantCode: apiErrors.ErrMissingParameter,
		},
		{
			name:     "missing platform_id",
			req:      domain.IngestionRequest{TenantID: "acme"},
			wantCode: apiErrors.ErrMissingParameter,
		},
		{
			name:     "unknown platform",
			req:      testRequest("Friendster"),
			wantCode: apiErrors.ErrUnknownPlatform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := d.Ingest(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantCode, apiErrors.CodeOf(err))
			assert.True(t, apiErrors.IsClientError(err))
		})
	}

	// Validation failures never reach the platform, and with no valid
	// platform the vault is never consulted for the unknown-platform case.
	assert.Equal(t, 0, upstreamCalls)
}

func TestIngest_CompletedWithPersistedRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/act_12345/insights", r.URL.Path)
		assert.Equal(t, "live-token", r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"data": [
			{"campaign_name": "A", "impressions": "100", "clicks": "10", "spend": "5.00", "conversions": "1", "action_values": "20", "date_start": "2026-08-01"},
			{"campaign_name": "B", "impressions": "200", "clicks": "20", "spend": "8.00", "conversions": "2", "action_values": "40", "date_start": "2026-08-02"}
		]}`))
	}))
	defer server.Close()

	vaultClient := vaultmocks.NewMockClient(ctrl)
	vaultClient.EXPECT().
		Get(gomock.Any(), "acme-Meta-token").
		Return("live-token", true, nil)

	rowsRepo := repomocks.NewMockPerformanceRepository(ctrl)
	rowsRepo.EXPECT().
		SaveRows(gomock.Any(), "acme", gomock.Len(2)).
		Return(nil)

	d := NewDispatcher(vaultClient, testRegistry(server.URL), rowsRepo)

	result, err := d.Ingest(context.Background(), testRequest("Meta"))
	require.NoError(t, err)
	assert.Equal(t, domain.IngestionCompleted, result.Status)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, domain.PlatformMeta, result.Platform)
	assert.Empty(t, result.ReportID)
}

func TestIngest_MissingCredentialFallsBackToDummyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var seenToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenToken = r.URL.Query().Get("access_token")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	vaultClient := vaultmocks.NewMockClient(ctrl)
	vaultClient.EXPECT().
		Get(gomock.Any(), "acme-Meta-token").
		Return("", false, nil)

	rowsRepo := repomocks.NewMockPerformanceRepository(ctrl)
	rowsRepo.EXPECT().SaveRows(gomock.Any(), "acme", gomock.Len(0)).Return(nil)

	d := NewDispatcher(vaultClient, testRegistry(server.URL), rowsRepo)

	result, err := d.Ingest(context.Background(), testRequest("Meta"))
	require.NoError(t, err)
	assert.Equal(t, domain.IngestionCompleted, result.Status)
	assert.Equal(t, dummyToken, seenToken)
}

func TestIngest_AsyncPlatformReportsPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "Pending", "report_id": "rpt-1"}`))
	}))
	defer server.Close()

	vaultClient := vaultmocks.NewMockClient(ctrl)
	vaultClient.EXPECT().
		Get(gomock.Any(), "acme-MicrosoftAds-token").
		Return("token", true, nil)

	// No rows are persisted for a submission acknowledgement.
	rowsRepo := repomocks.NewMockPerformanceRepository(ctrl)

	d := NewDispatcher(vaultClient, testRegistry(server.URL), rowsRepo)

	result, err := d.Ingest(context.Background(), testRequest("MicrosoftAds"))
	require.NoError(t, err)
	assert.Equal(t, domain.IngestionPending, result.Status)
	assert.Equal(t, "rpt-1", result.ReportID)
	assert.Zero(t, result.RowCount)
}

func TestIngest_PlatformRejectionIsServerClassified(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "token expired"}`))
	}))
	defer server.Close()

	vaultClient := vaultmocks.NewMockClient(ctrl)
	vaultClient.EXPECT().
		Get(gomock.Any(), "acme-Meta-token").
		Return("stale", true, nil)

	rowsRepo := repomocks.NewMockPerformanceRepository(ctrl)

	d := NewDispatcher(vaultClient, testRegistry(server.URL), rowsRepo)

	result, err := d.Ingest(context.Background(), testRequest("Meta"))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apiErrors.ErrConnectorFailure, apiErrors.CodeOf(err))
	assert.False(t, apiErrors.IsClientError(err))
}

func TestIngest_SinkFailureStillCompletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [
			{"campaign_name": "A", "impressions": "100", "clicks": "10", "spend": "5.00", "conversions": "1", "action_values": "20", "date_start": "2026-08-01"}
		]}`))
	}))
	defer server.Close()

	vaultClient := vaultmocks.NewMockClient(ctrl)
	vaultClient.EXPECT().
		Get(gomock.Any(), "acme-Meta-token").
		Return("token", true, nil)

	rowsRepo := repomocks.NewMockPerformanceRepository(ctrl)
	rowsRepo.EXPECT().
		SaveRows(gomock.Any(), "acme", gomock.Any()).
		Return(assert.AnError)

	d := NewDispatcher(vaultClient, testRegistry(server.URL), rowsRepo)

	// The platform delivered the rows; a sink failure is logged, not fatal.
	result, err := d.Ingest(context.Background(), testRequest("Meta"))
	require.NoError(t, err)
	assert.Equal(t, domain.IngestionCompleted, result.Status)
	assert.Equal(t, 1, result.RowCount)
}
