package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/fwojciec/gbinews"
	gbihttp "github.com/fwojciec/gbinews/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapSource_Discover_FromRobotsTxt(t *testing.T) {
	t.Parallel()

	robotsTxt := `User-agent: *
Disallow: /member/
Sitemap: {{BASE}}/sitemap.xml
`
	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/tw/article/show.php?num=101</loc></url>
  <url><loc>{{BASE}}/tw/article/show.php?num=102</loc></url>
  <url><loc>{{BASE}}/tw/article/index.php</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/robots.txt":  robotsTxt,
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	source := gbihttp.NewSitemapSource(testFetcher(srv), srv.URL+"/tw/article/index.php")
	links, err := source.Discover(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/tw/article/show.php?num=101",
		srv.URL + "/tw/article/show.php?num=102",
	}, links)
}

func TestSitemapSource_Discover_FallbackToSitemapXML(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/tw/article/show.php?num=7</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	source := gbihttp.NewSitemapSource(testFetcher(srv), srv.URL)
	links, err := source.Discover(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/tw/article/show.php?num=7"}, links)
}

func TestSitemapSource_Discover_SitemapIndex(t *testing.T) {
	t.Parallel()

	sitemapIndex := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-2024.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-2023.xml</loc></sitemap>
</sitemapindex>`

	sitemap2024 := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/tw/article/show.php?num=2</loc></url>
</urlset>`

	sitemap2023 := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/tw/article/show.php?num=1</loc></url>
  <url><loc>{{BASE}}/tw/article/show.php?num=2</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml":      sitemapIndex,
		"/sitemap-2024.xml": sitemap2024,
		"/sitemap-2023.xml": sitemap2023,
	})
	t.Cleanup(srv.Close)

	t.Run("reads every urlset in all mode", func(t *testing.T) {
		t.Parallel()

		source := gbihttp.NewSitemapSource(testFetcher(srv), srv.URL)
		links, err := source.Discover(context.Background(), 1, true)

		require.NoError(t, err)
		assert.Equal(t, []string{
			srv.URL + "/tw/article/show.php?num=2",
			srv.URL + "/tw/article/show.php?num=1",
		}, links)
	})

	t.Run("limits urlsets to max pages", func(t *testing.T) {
		t.Parallel()

		source := gbihttp.NewSitemapSource(testFetcher(srv), srv.URL)
		links, err := source.Discover(context.Background(), 1, false)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/tw/article/show.php?num=2"}, links)
	})
}

func TestSitemapSource_Discover_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": `<urlset></urlset>`,
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	source := gbihttp.NewSitemapSource(testFetcher(srv), srv.URL)
	_, err := source.Discover(ctx, 1, false)

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSitemapSource_Discover_NoSitemapFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{})
	defer srv.Close()

	source := gbihttp.NewSitemapSource(testFetcher(srv), srv.URL)
	links, err := source.Discover(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestSitemapSource_Discover_SkipsMissingSitemaps(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/robots.txt": "Sitemap: {{BASE}}/old.xml\nSitemap: {{BASE}}/news.xml\n",
		"/news.xml": `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc> {{BASE}}/tw/article/show.php?num=88#top </loc></url>
</urlset>`,
	})
	defer srv.Close()

	source := gbihttp.NewSitemapSource(testFetcher(srv), srv.URL)
	links, err := source.Discover(context.Background(), 5, false)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/tw/article/show.php?num=88"}, links)
}

func TestSitemapSource_Discover_MalformedSitemap(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": `<urlset><<loc>`,
	})
	defer srv.Close()

	source := gbihttp.NewSitemapSource(testFetcher(srv), srv.URL)
	_, err := source.Discover(context.Background(), 1, false)

	require.Error(t, err)
	assert.Equal(t, gbinews.EINVALID, gbinews.ErrorCode(err))
}

func TestSitemapSource_Discover_InvalidSiteURL(t *testing.T) {
	t.Parallel()

	source := gbihttp.NewSitemapSource(nil, "://bad")
	_, err := source.Discover(context.Background(), 1, false)

	require.Error(t, err)
	assert.Equal(t, gbinews.EINVALID, gbinews.ErrorCode(err))
}

func testFetcher(srv *httptest.Server) *gbihttp.Fetcher {
	return gbihttp.NewFetcher(gbihttp.WithClient(srv.Client()))
}

// newTestServer creates a test HTTP server with the given path->content mapping.
// Content strings may contain {{BASE}} which is replaced with the server URL.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = replaceBaseURL(body, srv.URL)

		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}

func replaceBaseURL(content, baseURL string) string {
	return regexp.MustCompile(`\{\{BASE\}\}`).ReplaceAllString(content, baseURL)
}
