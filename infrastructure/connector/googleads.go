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

// GoogleAds is the paid-media variant for Google campaigns: bearer token,
// campaign-level daily metrics with micros-denominated money fields.
type GoogleAds struct {
	baseURL   string
	token     string
	requester httpclient.Requester
}

func NewGoogleAds(baseURL, token string, requester httpclient.Requester) *GoogleAds {
	return &GoogleAds{baseURL: baseURL, token: token, requester: requester}
}

func (c *GoogleAds) Platform() domain.Platform {
	return domain.PlatformGoogleAds
}

type googleAdsResponse struct {
	Results []struct {
		Campaign struct {
			Name string `json:"name"`
		} `json:"campaign"`
		Metrics struct {
			Impressions      string `json:"impressions"`
			Clicks           string `json:"clicks"`
			CostMicros       string `json:"costMicros"`
			Conversions      string `json:"conversions"`
			ConversionsValue string `json:"conversionsValue"`
		} `json:"metrics"`
		Segments struct {
			Date string `json:"date"`
		} `json:"segments"`
	} `json:"results"`
}

func (c *GoogleAds) Fetch(ctx context.Context, accountRef string, dateRange domain.DateRange) (*Result, error) {
	target := fmt.Sprintf("%s/customers/%s/campaignMetrics", c.baseURL, url.PathEscape(accountRef))

	params := url.Values{}
	params.Set("startDate", dateRange.Since.Format(time.DateOnly))
	params.Set("endDate", dateRange.Until.Format(time.DateOnly))

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.token)

	resp, err := c.requester.Get(ctx, target, params, headers)
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload googleAdsResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	rows := make([]domain.PerformanceRow, 0, len(payload.Results))
	for _, entry := range payload.Results {
		date, _ := time.Parse(time.DateOnly, entry.Segments.Date)
		rows = append(rows, clampRow(domain.PerformanceRow{
			Date:            date,
			CampaignName:    entry.Campaign.Name,
			Platform:        c.Platform(),
			Impressions:     toInt64(entry.Metrics.Impressions),
			Clicks:          toInt64(entry.Metrics.Clicks),
			Spend:           toFloat64(entry.Metrics.CostMicros) / 1e6,
			Conversions:     toInt64(entry.Metrics.Conversions),
			ConversionValue: toFloat64(entry.Metrics.ConversionsValue),
		}))
	}

	return &Result{Kind: KindRows, Rows: rows}, nil
}
