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

// SearchConsole talks to the Search Console search-analytics and sitemaps
// APIs. Site URLs are full URLs embedded in the request path, so every path
// segment is percent-encoded: a site identifier must round-trip through
// fetch/list/submit/delete unchanged after decoding.
type SearchConsole struct {
	baseURL   string
	token     string
	requester httpclient.Requester
}

func NewSearchConsole(baseURL, token string, requester httpclient.Requester) *SearchConsole {
	return &SearchConsole{baseURL: baseURL, token: token, requester: requester}
}

func (c *SearchConsole) Platform() domain.Platform {
	return domain.PlatformGoogleSearchConsole
}

type searchAnalyticsQuery struct {
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Dimensions []string `json:"dimensions"`
	RowLimit   int      `json:"rowLimit"`
}

type searchAnalyticsResponse struct {
	Rows []struct {
		Keys        []string `json:"keys"`
		Clicks      float64  `json:"clicks"`
		Impressions float64  `json:"impressions"`
		CTR         float64  `json:"ctr"`
		Position    float64  `json:"position"`
	} `json:"rows"`
}

// Fetch queries search analytics for a site. The accountRef is the site URL.
func (c *SearchConsole) Fetch(ctx context.Context, accountRef string, dateRange domain.DateRange) (*Result, error) {
	target := fmt.Sprintf("%s/sites/%s/searchAnalytics/query", c.baseURL, url.PathEscape(accountRef))

	body, err := json.Marshal(searchAnalyticsQuery{
		StartDate:  dateRange.Since.Format(time.DateOnly),
		EndDate:    dateRange.Until.Format(time.DateOnly),
		Dimensions: []string{"query", "page", "device"},
		RowLimit:   5000,
	})
	if err != nil {
		return nil, errors.Wrap(err, "search console: encoding query")
	}

	resp, err := c.requester.Do(ctx, http.MethodPost, target, nil, c.headers(), body)
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload searchAnalyticsResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	// Organic search has no spend; keyword performance maps onto the row
	// shape with the query string standing in for the campaign name.
	rows := make([]domain.PerformanceRow, 0, len(payload.Rows))
	for _, entry := range payload.Rows {
		name := ""
		if len(entry.Keys) > 0 {
			name = entry.Keys[0]
		}
		rows = append(rows, clampRow(domain.PerformanceRow{
			Date:         dateRange.Until,
			CampaignName: name,
			Platform:     c.Platform(),
			Impressions:  int64(entry.Impressions),
			Clicks:       int64(entry.Clicks),
		}))
	}

	return &Result{Kind: KindRows, Rows: rows}, nil
}

type sitemapList struct {
	Sitemap []struct {
		Path        string `json:"path"`
		LastUpdated string `json:"lastSubmitted"`
	} `json:"sitemap"`
}

// ListSitemaps lists the sitemaps registered for a site. Discovery/admin
// operation, not part of the ingestion path.
func (c *SearchConsole) ListSitemaps(ctx context.Context, siteURL string) ([]string, error) {
	target := fmt.Sprintf("%s/sites/%s/sitemaps", c.baseURL, url.PathEscape(siteURL))

	resp, err := c.requester.Get(ctx, target, nil, c.headers())
	if err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	var payload sitemapList
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, wrapError(c.Platform(), err)
	}

	paths := make([]string, 0, len(payload.Sitemap))
	for _, entry := range payload.Sitemap {
		paths = append(paths, entry.Path)
	}
	return paths, nil
}

// SubmitSitemap registers a sitemap feed for a site. Not idempotent.
func (c *SearchConsole) SubmitSitemap(ctx context.Context, siteURL, feedPath string) error {
	target := c.sitemapURL(siteURL, feedPath)
	if _, err := c.requester.Do(ctx, http.MethodPut, target, nil, c.headers(), nil); err != nil {
		return wrapError(c.Platform(), err)
	}
	return nil
}

// DeleteSitemap removes a sitemap feed from a site. Not idempotent.
func (c *SearchConsole) DeleteSitemap(ctx context.Context, siteURL, feedPath string) error {
	target := c.sitemapURL(siteURL, feedPath)
	if _, err := c.requester.Do(ctx, http.MethodDelete, target, nil, c.headers(), nil); err != nil {
		return wrapError(c.Platform(), err)
	}
	return nil
}

func (c *SearchConsole) sitemapURL(siteURL, feedPath string) string {
	return fmt.Sprintf("%s/sites/%s/sitemaps/%s", c.baseURL, url.PathEscape(siteURL), url.PathEscape(feedPath))
}

func (c *SearchConsole) headers() http.Header {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.token)
	headers.Set("Content-Type", "application/json")
	return headers
}
