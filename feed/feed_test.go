package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: serve a fixed RSS document
func serveRSS(t *testing.T, items ...string) *httptest.Server {
	t.Helper()
	var body string
	for _, link := range items {
		body += fmt.Sprintf("<item><title>story</title><link>%s</link></item>", link)
	}
	rss := fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>News</title>%s</channel></rss>`, body)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rss)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestListURLs_FeedOrder verifies that links come back in feed order
func TestListURLs_FeedOrder(t *testing.T) {
	srv := serveRSS(t,
		"https://site.test/news/one/",
		"https://site.test/news/two/",
	)

	urls, err := NewSource(srv.URL, "").ListURLs(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://site.test/news/one/",
		"https://site.test/news/two/",
	}, urls)
}

// TestListURLs_FilterAndDedup verifies the news filter and duplicate
// removal
func TestListURLs_FilterAndDedup(t *testing.T) {
	srv := serveRSS(t,
		"https://site.test/news/one/",
		"https://site.test/videos/clip/",
		"https://site.test/news/one/",
		"https://site.test/news/two/",
	)

	urls, err := NewSource(srv.URL, "/news/").ListURLs(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://site.test/news/one/",
		"https://site.test/news/two/",
	}, urls)
}

// TestListURLs_Limit verifies truncation at the limit
func TestListURLs_Limit(t *testing.T) {
	srv := serveRSS(t,
		"https://site.test/news/one/",
		"https://site.test/news/two/",
		"https://site.test/news/three/",
	)

	urls, err := NewSource(srv.URL, "").ListURLs(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

// TestListURLs_EmptyFeedFatal verifies that a feed with no usable links
// is an error
func TestListURLs_EmptyFeedFatal(t *testing.T) {
	srv := serveRSS(t)

	_, err := NewSource(srv.URL, "").ListURLs(context.Background(), 0)
	assert.Error(t, err)
}

// TestListURLs_FetchFailure verifies that an unreachable feed is an
// error
func TestListURLs_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := NewSource(srv.URL, "").ListURLs(context.Background(), 0)
	assert.Error(t, err)
}
