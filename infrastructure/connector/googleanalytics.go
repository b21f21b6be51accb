package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

// GoogleAnalytics talks to the GA4 Data API runReport endpoint.
type GoogleAnalytics struct {
	baseURL   string
	token     string
	requester httpclient.Requester
}

func NewGoogleAnalytics(baseURL, token string, requester httpclient.Requester) *GoogleAnalytics {
	return &GoogleAnalytics{baseURL: baseURL, token: token, requester: requester}
}

func (c *GoogleAnalytics) Platform() domain.Platform {
	return domain.PlatformGoogleAnalytics
}

type ga4ReportRequest struct {
	DateRanges []ga4DateRange `json:"dateRanges"`
	Dimensions []ga4Name      `json:"dimensions"`
	Metrics    []ga4Name      `json:"metrics"`
}

type ga4DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type ga4Name struct {
	Name string `json:"name"`
}

type ga4ReportResponse struct {
	Rows []struct {
		DimensionValues []struct {
			Value string `json:"value"`
		} `json:"dimensionValues"`
		MetricValues []struct {
			Value string `json:"value"`
		} `json:"metricValues"`
	} `json:"rows"`
}

// Fetch runs a GA4 report for a property. The accountRef is the property ID.
func (c *GoogleAnalytics) Fetch(ctx context.Context, accountRef string, dateRange domain.DateRange) (*Result, error) {
	target := fmt.Sprintf("%s/properties/%s:runReport", c.baseURL, url.PathEscape(accountRef))

	body, err := json.Marshal(ga4ReportRequest{
		DateRanges: []ga4DateRange{{
			StartDate: dateRange.Since.Format(time.DateOnly),
			EndDate:   dateRange.Until.Format(time.DateOnly),
		}},
		Dimensions: []ga4Name{{Name: "eventName"}},
		Metrics:    []ga4Name{{Name: "sessions"}, {Name: "totalUsers"}, {Name: "conversions"}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "ga4: encoding report request")
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.token)
	headers.Set("Content-Type", "application/json")

	resp, err := c.requester.Do(ctx, http.MethodPost, target, nil, headers, body)
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload ga4ReportResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	// Web analytics carries no ad spend; sessions map onto impressions and
	// the event name stands in for the campaign name.
	rows := make([]domain.PerformanceRow, 0, len(payload.Rows))
	for _, entry := range payload.Rows {
		name := ""
		if len(entry.DimensionValues) > 0 {
			name = entry.DimensionValues[0].Value
		}

		var sessions, conversions int64
		if len(entry.MetricValues) > 0 {
			sessions = toInt64(entry.MetricValues[0].Value)
		}
		if len(entry.MetricValues) > 2 {
			conversions = toInt64(entry.MetricValues[2].Value)
		}

		rows = append(rows, clampRow(domain.PerformanceRow{
			Date:         dateRange.Until,
			CampaignName: name,
			Platform:     c.Platform(),
			Impressions:  sessions,
			Conversions:  conversions,
		}))
	}

	return &Result{Kind: KindRows, Rows: rows}, nil
}
