package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/internal/usecases/ingesting/mocks"
	"github.com/ziaflow/marketing-lens/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func TestIngest_ClientErrorsAnswer400(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := mocks.NewMockDispatcher(ctrl)

	tests := []struct {
		name    string
		target  string
		dispErr error
	}{
		{
			name:    "missing tenant_id",
			target:  "/ingest?platform_id=Meta",
			dispErr: apiErrors.New(apiErrors.ErrMissingParameter, "tenant_id is required"),
		},
		{
			name:    "unknown platform",
			target:  "/ingest?tenant_id=acme&platform_id=Friendster",
			dispErr: apiErrors.New(apiErrors.ErrUnknownPlatform, `unknown platform "Friendster"`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher.EXPECT().
				Ingest(gomock.Any(), gomock.Any()).
				Return(nil, tt.dispErr)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			Ingest(dispatcher).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, rec.Body.String())
		})
	}
}

func TestIngest_MalformedDateAnswers400WithoutDispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := mocks.NewMockDispatcher(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/ingest?tenant_id=acme&platform_id=Meta&start_date=01-08-2026", nil)
	rec := httptest.NewRecorder()
	Ingest(dispatcher).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "start_date")
}

func TestIngest_CompletedAnswersPlainText(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := mocks.NewMockDispatcher(ctrl)
	dispatcher.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.IngestionRequest) (*domain.IngestionResult, error) {
			assert.Equal(t, "acme", req.TenantID)
			assert.Equal(t, "Meta", req.PlatformID)
			assert.False(t, req.Range.Since.IsZero())
			return &domain.IngestionResult{
				TenantID: "acme",
				Platform: domain.PlatformMeta,
				Status:   domain.IngestionCompleted,
				RowCount: 17,
			}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/ingest?tenant_id=acme&platform_id=Meta", nil)
	rec := httptest.NewRecorder()
	Ingest(dispatcher).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ingested 17 records for acme on Meta", rec.Body.String())
}

func TestIngest_PendingAnswersReportID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := mocks.NewMockDispatcher(ctrl)
	dispatcher.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		Return(&domain.IngestionResult{
			TenantID: "acme",
			Platform: domain.PlatformMicrosoftAds,
			Status:   domain.IngestionPending,
			ReportID: "rpt-1",
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ingest?tenant_id=acme&platform_id=MicrosoftAds", nil)
	rec := httptest.NewRecorder()
	Ingest(dispatcher).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Report submitted for acme on MicrosoftAds: rpt-1", rec.Body.String())
}

func TestIngest_ServerErrorsAnswer500(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := mocks.NewMockDispatcher(ctrl)
	dispatcher.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		Return(nil, apiErrors.New(apiErrors.ErrConnectorFailure, "Meta rejected the request"))

	req := httptest.NewRequest(http.MethodGet, "/ingest?tenant_id=acme&platform_id=Meta", nil)
	rec := httptest.NewRecorder()
	Ingest(dispatcher).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Ingestion failed")
}
