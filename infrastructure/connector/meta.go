package connector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

// Meta talks to the Graph Marketing API. The access token travels as a query
// parameter, Graph style, and numeric fields arrive as strings.
type Meta struct {
	baseURL   string
	token     string
	requester httpclient.Requester
}

func NewMeta(baseURL, token string, requester httpclient.Requester) *Meta {
	return &Meta{baseURL: baseURL, token: token, requester: requester}
}

func (c *Meta) Platform() domain.Platform {
	return domain.PlatformMeta
}

type metaInsightsResponse struct {
	Data []struct {
		CampaignName string `json:"campaign_name"`
		Impressions  string `json:"impressions"`
		Clicks       string `json:"clicks"`
		Spend        string `json:"spend"`
		Conversions  string `json:"conversions"`
		ActionValues string `json:"action_values"`
		DateStart    string `json:"date_start"`
	} `json:"data"`
}

// Fetch retrieves campaign-level insights for an ad account.
func (c *Meta) Fetch(ctx context.Context, accountRef string, dateRange domain.DateRange) (*Result, error) {
	target := fmt.Sprintf("%s/act_%s/insights", c.baseURL, url.PathEscape(accountRef))

	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("level", "campaign")
	params.Set("fields", "campaign_name,campaign_id,impressions,clicks,spend,conversions,action_values")
	params.Set("limit", "100")
	params.Set("time_range", fmt.Sprintf(
		`{"since":"%s","until":"%s"}`,
		dateRange.Since.Format(time.DateOnly),
		dateRange.Until.Format(time.DateOnly),
	))

	resp, err := c.requester.Get(ctx, target, params, nil)
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload metaInsightsResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	rows := make([]domain.PerformanceRow, 0, len(payload.Data))
	for _, entry := range payload.Data {
		date, _ := time.Parse(time.DateOnly, entry.DateStart)
		rows = append(rows, clampRow(domain.PerformanceRow{
			Date:            date,
			CampaignName:    entry.CampaignName,
			Platform:        c.Platform(),
			Impressions:     toInt64(entry.Impressions),
			Clicks:          toInt64(entry.Clicks),
			Spend:           toFloat64(entry.Spend),
			Conversions:     toInt64(entry.Conversions),
			ConversionValue: toFloat64(entry.ActionValues),
		}))
	}

	return &Result{Kind: KindRows, Rows: rows}, nil
}

type metaPageInsightsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Period string `json:"period"`
		Values []struct {
			Value int64 `json:"value"`
		} `json:"values"`
	} `json:"data"`
}

// GetPageInsights fetches organic page metrics. Outside the ingestion
// pipeline path; exposed for page-level reporting.
func (c *Meta) GetPageInsights(ctx context.Context, pageID string) (map[string]int64, error) {
	target := fmt.Sprintf("%s/%s/insights", c.baseURL, url.PathEscape(pageID))

	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("metric", "page_impressions,page_post_engagements,page_fans")
	params.Set("period", "day")

	resp, err := c.requester.Get(ctx, target, params, nil)
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload metaPageInsightsResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	metrics := make(map[string]int64, len(payload.Data))
	for _, entry := range payload.Data {
		if len(entry.Values) > 0 {
			metrics[entry.Name] = entry.Values[len(entry.Values)-1].Value
		}
	}

	return metrics, nil
}
