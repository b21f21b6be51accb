package connector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

func testRequester() httpclient.Requester {
	return httpclient.New(httpclient.WithSleep(func(time.Duration) {}))
}

func testRange() domain.DateRange {
	return domain.DateRange{
		Since: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC),
	}
}

func TestMeta_FetchMapsStringMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/act_12345/insights", r.URL.Path)
		assert.Equal(t, "secret-token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "campaign", r.URL.Query().Get("level"))
		assert.JSONEq(t, `{"since":"2026-08-01","until":"2026-08-07"}`, r.URL.Query().Get("time_range"))

		_, _ = w.Write([]byte(`{"data": [
			{"campaign_name": "Summer Sale", "impressions": "1000", "clicks": "50", "spend": "123.45", "conversions": "7", "action_values": "300.10", "date_start": "2026-08-01"},
			{"campaign_name": "Brand", "impressions": "10", "clicks": "25", "spend": "-5", "conversions": "1", "action_values": "", "date_start": "2026-08-02"}
		]}`))
	}))
	defer server.Close()

	conn := NewMeta(server.URL, "secret-token", testRequester())

	result, err := conn.Fetch(context.Background(), "12345", testRange())
	require.NoError(t, err)
	require.Equal(t, KindRows, result.Kind)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	assert.Equal(t, "Summer Sale", first.CampaignName)
	assert.Equal(t, domain.PlatformMeta, first.Platform)
	assert.Equal(t, int64(1000), first.Impressions)
	assert.Equal(t, int64(50), first.Clicks)
	assert.Equal(t, 123.45, first.Spend)
	assert.Equal(t, int64(7), first.Conversions)
	assert.Equal(t, 300.10, first.ConversionValue)

	// Invariants are enforced at the mapping boundary: negative spend is
	// clamped and impressions are raised to the click count.
	second := result.Rows[1]
	assert.Equal(t, 0.0, second.Spend)
	assert.Equal(t, int64(25), second.Clicks)
	assert.Equal(t, int64(25), second.Impressions)
}

func TestMeta_FetchClassifiesPlatformRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer server.Close()

	conn := NewMeta(server.URL, "expired", testRequester())

	_, err := conn.Fetch(context.Background(), "12345", testRange())
	require.Error(t, err)

	var connErr *ConnectorError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, domain.PlatformMeta, connErr.Platform)
	assert.Equal(t, http.StatusUnauthorized, connErr.Status)
	assert.Contains(t, connErr.Message, "Invalid OAuth access token")
}

func TestMeta_GetPageInsights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/777/insights", r.URL.Path)
		_, _ = w.Write([]byte(`{"data": [
			{"name": "page_impressions", "period": "day", "values": [{"value": 100}, {"value": 250}]},
			{"name": "page_fans", "period": "day", "values": [{"value": 42}]}
		]}`))
	}))
	defer server.Close()

	conn := NewMeta(server.URL, "token", testRequester())

	metrics, err := conn.GetPageInsights(context.Background(), "777")
	require.NoError(t, err)
	assert.Equal(t, int64(250), metrics["page_impressions"])
	assert.Equal(t, int64(42), metrics["page_fans"])
}
