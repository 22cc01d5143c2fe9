package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/scrapehub"
	scrapehttp "github.com/fwojciec/scrapehub/http"
	"github.com/fwojciec/scrapehub/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, scraper scrapehub.Scraper) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	srv := httptest.NewServer(scrapehttp.NewServer(scraper, logger).Handler())
	t.Cleanup(srv.Close)
	return srv, &logs
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &mock.Scraper{})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, map[string]string{"status": "ok", "service": "scrapehub"}, body)
}

func TestServer_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("scrapes url from query", func(t *testing.T) {
		t.Parallel()

		var gotURL string
		srv, _ := newTestServer(t, &mock.Scraper{
			ScrapeFn: func(_ context.Context, url string) ([]*scrapehub.ArticleResult, error) {
				gotURL = url
				return []*scrapehub.ArticleResult{
					{URL: "https://example.com/a/b/c", Content: "Hello <World>"},
					{URL: "https://example.com/a/b/d", Error: "HTTP 500 for https://example.com/a/b/d"},
				}, nil
			},
		})

		resp, err := http.Get(srv.URL + "/api/scrape?url=https://example.com/a/b")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		var body []map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "https://example.com/a/b", gotURL)
		assert.Equal(t, []map[string]string{
			{"url": "https://example.com/a/b/c", "content": "Hello <World>"},
			{"url": "https://example.com/a/b/d", "error": "HTTP 500 for https://example.com/a/b/d"},
		}, body)
	})

	t.Run("scrapes url from JSON body", func(t *testing.T) {
		t.Parallel()

		var gotURL string
		srv, _ := newTestServer(t, &mock.Scraper{
			ScrapeFn: func(_ context.Context, url string) ([]*scrapehub.ArticleResult, error) {
				gotURL = url
				return nil, nil
			},
		})

		resp, err := http.Post(srv.URL+"/api/scrape", "application/json", strings.NewReader(`{"url":"https://example.com/blog"}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body []any
		decode(t, resp, &body)
		assert.Equal(t, "https://example.com/blog", gotURL)
		assert.NotNil(t, body)
		assert.Empty(t, body)
	})

	t.Run("query takes precedence over body", func(t *testing.T) {
		t.Parallel()

		var gotURL string
		srv, _ := newTestServer(t, &mock.Scraper{
			ScrapeFn: func(_ context.Context, url string) ([]*scrapehub.ArticleResult, error) {
				gotURL = url
				return []*scrapehub.ArticleResult{}, nil
			},
		})

		resp, err := http.Post(srv.URL+"/api/scrape?url=https://a.example/x", "application/json", strings.NewReader(`{"url":"https://b.example/y"}`))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "https://a.example/x", gotURL)
	})

	t.Run("missing url is a client error", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t, &mock.Scraper{})

		for _, req := range []func() (*http.Response, error){
			func() (*http.Response, error) { return http.Get(srv.URL + "/api/scrape") },
			func() (*http.Response, error) {
				return http.Post(srv.URL+"/api/scrape", "application/json", strings.NewReader(`{}`))
			},
			func() (*http.Response, error) {
				return http.Post(srv.URL+"/api/scrape", "text/plain", strings.NewReader(`not json`))
			},
		} {
			resp, err := req()
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body map[string]string
			decode(t, resp, &body)
			assert.Equal(t, "Missing required parameter: url", body["error"])
		}
	})

	t.Run("crawl failure is a server error", func(t *testing.T) {
		t.Parallel()

		srv, logs := newTestServer(t, &mock.Scraper{
			ScrapeFn: func(_ context.Context, _ string) ([]*scrapehub.ArticleResult, error) {
				return nil, errors.New("fetch index page: connection refused")
			},
		})

		resp, err := http.Get(srv.URL + "/api/scrape?url=https://example.com/news")
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "fetch index page: connection refused", body["error"])
		srv.Close()
		assert.Contains(t, logs.String(), "scrape failed")
	})

	t.Run("application error message is unwrapped", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t, &mock.Scraper{
			ScrapeFn: func(_ context.Context, _ string) ([]*scrapehub.ArticleResult, error) {
				return nil, scrapehub.Errorf(scrapehub.EUPSTREAM, "HTTP 403 for https://example.com/news")
			},
		})

		resp, err := http.Get(srv.URL + "/api/scrape?url=https://example.com/news")
		require.NoError(t, err)

		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "HTTP 403 for https://example.com/news", body["error"])
	})

	t.Run("other methods are not allowed", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t, &mock.Scraper{})

		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/scrape?url=x", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestServer_Scrape_Debug(t *testing.T) {
	t.Parallel()

	for _, flag := range []string{"1", "true", "TRUE", "True"} {
		t.Run("debug="+flag, func(t *testing.T) {
			t.Parallel()

			srv, _ := newTestServer(t, &mock.Scraper{
				InspectFn: func(_ context.Context, url string) (*scrapehub.DebugReport, error) {
					return &scrapehub.DebugReport{
						Debug:                true,
						HTMLLength:           42,
						BasePathUsed:         "/media-centre/",
						FilteredArticleLinks: []string{"https://example.com/media-centre/n/a"},
						AllSameDomainLinks:   []string{"https://example.com/media-centre/n/a", "https://example.com/x/y/z"},
					}, nil
				},
			})

			resp, err := http.Get(srv.URL + "/api/scrape?debug=" + flag + "&url=https://example.com/media-centre/news/")
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			var body []map[string]any
			decode(t, resp, &body)
			require.Len(t, body, 1)
			assert.Equal(t, true, body[0]["debug"])
			assert.Equal(t, float64(42), body[0]["html_length"])
			assert.Equal(t, "/media-centre/", body[0]["base_path_used"])
			assert.Len(t, body[0]["filtered_article_links"], 1)
			assert.Len(t, body[0]["all_same_domain_links"], 2)
		})
	}

	t.Run("other values do not enable debug", func(t *testing.T) {
		t.Parallel()

		scraped := false
		srv, _ := newTestServer(t, &mock.Scraper{
			ScrapeFn: func(_ context.Context, _ string) ([]*scrapehub.ArticleResult, error) {
				scraped = true
				return nil, nil
			},
		})

		resp, err := http.Get(srv.URL + "/api/scrape?debug=yes&url=https://example.com/n")
		require.NoError(t, err)
		resp.Body.Close()

		assert.True(t, scraped)
	})

	t.Run("inspect failure is a server error", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t, &mock.Scraper{
			InspectFn: func(_ context.Context, _ string) (*scrapehub.DebugReport, error) {
				return nil, errors.New("timeout")
			},
		})

		resp, err := http.Get(srv.URL + "/api/scrape?debug=1&url=https://example.com/n")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestServer_RequestID(t *testing.T) {
	t.Parallel()

	t.Run("assigns and logs a request id", func(t *testing.T) {
		t.Parallel()

		srv, logs := newTestServer(t, &mock.Scraper{})

		resp, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		resp.Body.Close()

		id := resp.Header.Get("X-Request-Id")
		srv.Close()
		assert.Len(t, id, 36)
		assert.Contains(t, logs.String(), "request_id="+id)
		assert.Contains(t, logs.String(), "status=200")
	})

	t.Run("keeps a caller supplied id", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t, &mock.Scraper{})

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-Id", "abc-123")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "abc-123", resp.Header.Get("X-Request-Id"))
	})
}

func TestServer_OpenClose(t *testing.T) {
	t.Parallel()

	s := scrapehttp.NewServer(&mock.Scraper{}, nil)
	s.Addr = "127.0.0.1:0"
	require.NoError(t, s.Open())

	resp, err := http.Get(s.URL() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Close(ctx))
}
