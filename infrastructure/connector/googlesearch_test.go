package connector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

const siteWithReservedChars = "https://example.com/shop?&lang=pt"

func TestSearchConsole_FetchEncodesSiteURL(t *testing.T) {
	var rawPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"rows": [
			{"keys": ["best glasses", "https://example.com/shop", "MOBILE"], "clicks": 12, "impressions": 340, "ctr": 0.035, "position": 4.2}
		]}`))
	}))
	defer server.Close()

	conn := NewSearchConsole(server.URL, "token", testRequester())

	result, err := conn.Fetch(context.Background(), siteWithReservedChars, testRange())
	require.NoError(t, err)

	// The site URL travels as a single path segment; decoding the segment
	// must give back the original identifier unchanged.
	require.True(t, strings.HasPrefix(rawPath, "/sites/"))
	segment := strings.TrimSuffix(strings.TrimPrefix(rawPath, "/sites/"), "/searchAnalytics/query")
	assert.NotContains(t, segment, "/")
	decoded, err := url.PathUnescape(segment)
	require.NoError(t, err)
	assert.Equal(t, siteWithReservedChars, decoded)

	require.Equal(t, KindRows, result.Kind)
	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.Equal(t, "best glasses", row.CampaignName)
	assert.Equal(t, domain.PlatformGoogleSearchConsole, row.Platform)
	assert.Equal(t, int64(340), row.Impressions)
	assert.Equal(t, int64(12), row.Clicks)
	assert.Equal(t, 0.0, row.Spend)
}

func TestSearchConsole_SitemapOperations(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{method: r.Method, path: r.URL.EscapedPath()})

		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"sitemap": [
				{"path": "https://example.com/sitemap.xml", "lastSubmitted": "2026-08-30T00:00:00Z"},
				{"path": "https://example.com/news.xml", "lastSubmitted": "2026-08-29T00:00:00Z"}
			]}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	conn := NewSearchConsole(server.URL, "token", testRequester())
	ctx := context.Background()
	feed := "https://example.com/sitemap.xml"

	paths, err := conn.ListSitemaps(ctx, siteWithReservedChars)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/sitemap.xml", "https://example.com/news.xml"}, paths)

	require.NoError(t, conn.SubmitSitemap(ctx, siteWithReservedChars, feed))
	require.NoError(t, conn.DeleteSitemap(ctx, siteWithReservedChars, feed))

	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodGet, calls[0].method)
	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Equal(t, http.MethodDelete, calls[2].method)

	// Submit and delete address the same escaped resource.
	assert.Equal(t, calls[1].path, calls[2].path)
	expected := "/sites/" + url.PathEscape(siteWithReservedChars) + "/sitemaps/" + url.PathEscape(feed)
	assert.Equal(t, expected, calls[1].path)
}
