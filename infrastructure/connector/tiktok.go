package connector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

// TikTok talks to the Business API integrated report endpoint. Auth is an
// Access-Token header rather than a bearer scheme, and every metric comes
// back as a string.
type TikTok struct {
	baseURL   string
	token     string
	requester httpclient.Requester
}

func NewTikTok(baseURL, token string, requester httpclient.Requester) *TikTok {
	return &TikTok{baseURL: baseURL, token: token, requester: requester}
}

func (c *TikTok) Platform() domain.Platform {
	return domain.PlatformTikTok
}

type tiktokReportResponse struct {
	Data struct {
		List []struct {
			Dimensions struct {
				CampaignID  string `json:"campaign_id"`
				StatTimeDay string `json:"stat_time_day"`
			} `json:"dimensions"`
			Metrics struct {
				CampaignName       string `json:"campaign_name"`
				Spend              string `json:"spend"`
				Impressions        string `json:"impressions"`
				Clicks             string `json:"clicks"`
				Conversion         string `json:"conversion"`
				TotalPurchaseValue string `json:"total_purchase_value"`
			} `json:"metrics"`
		} `json:"list"`
	} `json:"data"`
}

func (c *TikTok) Fetch(ctx context.Context, accountRef string, dateRange domain.DateRange) (*Result, error) {
	target := c.baseURL + "/report/integrated/get/"

	params := url.Values{}
	params.Set("advertiser_id", accountRef)
	params.Set("report_type", "BASIC")
	params.Set("data_level", "AUCTION_CAMPAIGN")
	params.Set("dimensions", `["campaign_id","stat_time_day"]`)
	params.Set("metrics", `["campaign_name","spend","impressions","clicks","conversion","total_purchase_value"]`)
	params.Set("start_date", dateRange.Since.Format(time.DateOnly))
	params.Set("end_date", dateRange.Until.Format(time.DateOnly))
	params.Set("page_size", "1000")

	headers := http.Header{}
	headers.Set("Access-Token", c.token)
	headers.Set("Content-Type", "application/json")

	resp, err := c.requester.Get(ctx, target, params, headers)
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload tiktokReportResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	rows := make([]domain.PerformanceRow, 0, len(payload.Data.List))
	for _, entry := range payload.Data.List {
		date, _ := time.Parse(time.DateOnly, entry.Dimensions.StatTimeDay)
		rows = append(rows, clampRow(domain.PerformanceRow{
			Date:            date,
			CampaignName:    entry.Metrics.CampaignName,
			Platform:        c.Platform(),
			Impressions:     toInt64(entry.Metrics.Impressions),
			Clicks:          toInt64(entry.Metrics.Clicks),
			Spend:           toFloat64(entry.Metrics.Spend),
			Conversions:     toInt64(entry.Metrics.Conversion),
			ConversionValue: toFloat64(entry.Metrics.TotalPurchaseValue),
		}))
	}

	return &Result{Kind: KindRows, Rows: rows}, nil
}
