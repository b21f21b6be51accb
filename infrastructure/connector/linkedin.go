package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

// LinkedIn talks to the Marketing Developer Platform: bearer auth plus the
// Rest.li protocol version header, date ranges split into day/month/year
// parameters.
type LinkedIn struct {
	baseURL   string
	token     string
	requester httpclient.Requester
}

func NewLinkedIn(baseURL, token string, requester httpclient.Requester) *LinkedIn {
	return &LinkedIn{baseURL: baseURL, token: token, requester: requester}
}

func (c *LinkedIn) Platform() domain.Platform {
	return domain.PlatformLinkedIn
}

type linkedinAnalyticsResponse struct {
	Elements []struct {
		PivotValues                   []string `json:"pivotValues"`
		Impressions                   int64    `json:"impressions"`
		Clicks                        int64    `json:"clicks"`
		CostInLocalCurrency           string   `json:"costInLocalCurrency"`
		ExternalWebsiteConversions    int64    `json:"externalWebsiteConversions"`
		ConversionValueInLocalCurrency string  `json:"conversionValueInLocalCurrency"`
	} `json:"elements"`
}

func (c *LinkedIn) Fetch(ctx context.Context, accountRef string, dateRange domain.DateRange) (*Result, error) {
	target := c.baseURL + "/adAnalyticsV2"

	params := url.Values{}
	params.Set("q", "analytics")
	params.Set("pivot", "CAMPAIGN")
	params.Set("timeGranularity", "DAILY")
	params.Set("accounts", "urn:li:sponsoredAccount:"+accountRef)
	addDateParams(params, "dateRange.start", dateRange.Since)
	addDateParams(params, "dateRange.end", dateRange.Until)

	resp, err := c.requester.Get(ctx, target, params, c.headers())
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload linkedinAnalyticsResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	rows := make([]domain.PerformanceRow, 0, len(payload.Elements))
	for _, entry := range payload.Elements {
		name := ""
		if len(entry.PivotValues) > 0 {
			name = entry.PivotValues[0]
		}
		rows = append(rows, clampRow(domain.PerformanceRow{
			Date:            dateRange.Until,
			CampaignName:    name,
			Platform:        c.Platform(),
			Impressions:     entry.Impressions,
			Clicks:          entry.Clicks,
			Spend:           toFloat64(entry.CostInLocalCurrency),
			Conversions:     entry.ExternalWebsiteConversions,
			ConversionValue: toFloat64(entry.ConversionValueInLocalCurrency),
		}))
	}

	return &Result{Kind: KindRows, Rows: rows}, nil
}

type linkedinShareStatsResponse struct {
	Elements []struct {
		TotalShareStatistics map[string]int64 `json:"totalShareStatistics"`
	} `json:"elements"`
}

// GetCompanyPageStats fetches organic share statistics for an organization.
// Outside the ingestion pipeline path.
func (c *LinkedIn) GetCompanyPageStats(ctx context.Context, organizationURN string) (map[string]int64, error) {
	target := c.baseURL + "/organizationalEntityShareStatistics"

	params := url.Values{}
	params.Set("q", "organizationalEntity")
	params.Set("organizationalEntity", organizationURN)

	resp, err := c.requester.Get(ctx, target, params, c.headers())
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload linkedinShareStatsResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	if len(payload.Elements) == 0 {
		return map[string]int64{}, nil
	}
	return payload.Elements[0].TotalShareStatistics, nil
}

func (c *LinkedIn) headers() http.Header {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.token)
	headers.Set("X-Restli-Protocol-Version", "2.0.0")
	return headers
}

func addDateParams(params url.Values, prefix string, date time.Time) {
	params.Set(fmt.Sprintf("%s.day", prefix), strconv.Itoa(date.Day()))
	params.Set(fmt.Sprintf("%s.month", prefix), strconv.Itoa(int(date.Month())))
	params.Set(fmt.Sprintf("%s.year", prefix), strconv.Itoa(date.Year()))
}
