package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

// Reddit talks to the Ads API reporting endpoint with the account scope
// embedded in the path.
type Reddit struct {
	baseURL   string
	token     string
	requester httpclient.Requester
}

func NewReddit(baseURL, token string, requester httpclient.Requester) *Reddit {
	return &Reddit{baseURL: baseURL, token: token, requester: requester}
}

func (c *Reddit) Platform() domain.Platform {
	return domain.PlatformReddit
}

type redditReportingResponse struct {
	Data struct {
		Metrics []struct {
			CampaignName    string  `json:"campaign_name"`
			Date            string  `json:"date"`
			Impressions     int64   `json:"impressions"`
			Clicks          int64   `json:"clicks"`
			Spend           float64 `json:"spend"`
			Conversions     int64   `json:"conversions"`
			ConversionValue float64 `json:"conversion_value"`
		} `json:"metrics"`
	} `json:"data"`
}

func (c *Reddit) Fetch(ctx context.Context, accountRef string, dateRange domain.DateRange) (*Result, error) {
	target := fmt.Sprintf("%s/scope/%s/reporting/", c.baseURL, url.PathEscape(accountRef))

	params := url.Values{}
	params.Set("starts_at", dateRange.Since.Format(time.RFC3339))
	params.Set("ends_at", dateRange.Until.Format(time.RFC3339))
	params.Set("group_by", "campaign_id")
	params.Set("metrics", "impressions,clicks,spend,conversions,conversion_value")

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.token)
	headers.Set("Content-Type", "application/json")

	resp, err := c.requester.Get(ctx, target, params, headers)
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload redditReportingResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	rows := make([]domain.PerformanceRow, 0, len(payload.Data.Metrics))
	for _, entry := range payload.Data.Metrics {
		date, _ := time.Parse(time.DateOnly, entry.Date)
		rows = append(rows, clampRow(domain.PerformanceRow{
			Date:            date,
			CampaignName:    entry.CampaignName,
			Platform:        c.Platform(),
			Impressions:     entry.Impressions,
			Clicks:          entry.Clicks,
			Spend:           entry.Spend,
			Conversions:     entry.Conversions,
			ConversionValue: entry.ConversionValue,
		}))
	}

	return &Result{Kind: KindRows, Rows: rows}, nil
}
