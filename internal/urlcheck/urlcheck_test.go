package urlcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		switch r.URL.Path {
		case "/modules":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<html><head><title>Go Modules Reference - The Go Programming Language</title></head><body>x</body></html>")
		case "/moved":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><head><title>Domain for sale</title></head></html>")
		case "/gone":
			w.WriteHeader(http.StatusGone)
		case "/error":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	srv := newServer(t, nil)
	c := New(Options{})

	tests := []struct {
		path  string
		title string
		want  Status
	}{
		{"/modules", "Go Modules Reference", StatusOK},
		{"/modules", "", StatusOK},
		{"/moved", "Go Modules Reference", StatusFlagged},
		{"/missing", "anything", StatusRemoved},
		{"/gone", "anything", StatusRemoved},
		{"/error", "anything", StatusFlagged},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.title, func(t *testing.T) {
			res := c.Check(context.Background(), srv.URL+tt.path, tt.title)
			if res.Status != tt.want {
				t.Errorf("Status = %s (%s), want %s", res.Status, res.Reason, tt.want)
			}
		})
	}
}

func TestCheckTransportErrorIsFlagged(t *testing.T) {
	srv := newServer(t, nil)
	addr := srv.URL
	srv.Close()

	res := New(Options{Timeout: time.Second}).Check(context.Background(), addr+"/modules", "")
	if res.Status != StatusFlagged || !strings.Contains(res.Reason, "request failed") {
		t.Errorf("result = %+v", res)
	}
}

func TestCheckNonHTTP(t *testing.T) {
	res := New(Options{}).Check(context.Background(), "ftp://example.com/x", "")
	if res.Status != StatusFlagged {
		t.Errorf("result = %+v", res)
	}
}

func TestCheckAllKeepsOrderAndContinuesPastFailures(t *testing.T) {
	srv := newServer(t, nil)
	reqs := []Request{
		{URL: srv.URL + "/gone"},
		{URL: srv.URL + "/modules", Title: "Go Modules"},
		{URL: srv.URL + "/error"},
	}

	results, err := New(Options{Concurrency: 2}).CheckAll(context.Background(), reqs)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	want := []Status{StatusRemoved, StatusOK, StatusFlagged}
	for i := range want {
		if results[i].Status != want[i] || results[i].URL != reqs[i].URL {
			t.Errorf("result %d = %+v, want %s", i, results[i], want[i])
		}
	}
}

func TestCheckAllCancelled(t *testing.T) {
	srv := newServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).CheckAll(ctx, []Request{{URL: srv.URL + "/modules"}})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestCacheServesFreshResults(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	cache, err := OpenCache(filepath.Join(t.TempDir(), CacheFile))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(Options{Cache: cache, TTL: time.Hour, Now: func() time.Time { return now }})

	first := c.Check(context.Background(), srv.URL+"/gone", "x")
	second := c.Check(context.Background(), srv.URL+"/gone", "x")
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("server hits = %d, want 1", hits)
	}
	if first.Cached || !second.Cached || second.Status != StatusRemoved {
		t.Errorf("first = %+v, second = %+v", first, second)
	}

	now = now.Add(2 * time.Hour)
	third := c.Check(context.Background(), srv.URL+"/gone", "x")
	if third.Cached || atomic.LoadInt32(&hits) != 2 {
		t.Errorf("expired entry served from cache: %+v", third)
	}

	pruned, err := cache.Prune(context.Background(), time.Hour, now.Add(3*time.Hour))
	if err != nil || pruned != 1 {
		t.Errorf("Prune = %d, %v", pruned, err)
	}
}

func TestTidyForgetsUncitedURLs(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), CacheFile))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()
	for _, u := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		if err := cache.Put(ctx, "t", Result{URL: u, Status: StatusOK}, now); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	c := New(Options{Cache: cache, TTL: time.Hour, Now: func() time.Time { return now }})
	if err := c.Tidy(ctx, []Request{{URL: "https://b.example"}}); err != nil {
		t.Fatalf("Tidy: %v", err)
	}

	if _, ok, _ := cache.Get(ctx, "https://b.example", "t", time.Hour, now); !ok {
		t.Error("cited URL was dropped")
	}
	if _, ok, _ := cache.Get(ctx, "https://a.example", "t", time.Hour, now); ok {
		t.Error("uncited URL was kept")
	}

	gone, err := cache.Retain(ctx, nil)
	if err != nil || len(gone) != 1 || gone[0] != "https://b.example" {
		t.Errorf("Retain(nil) = %v, %v", gone, err)
	}
}

func TestTitlesShareWord(t *testing.T) {
	tests := []struct {
		cited, page string
		want        bool
	}{
		{"Go Modules Reference", "Go Modules Reference - The Go Programming Language", true},
		{"Go Modules Reference", "Domain for sale", false},
		{"Go", "Domain for sale", true},
		{"RFC 9110: HTTP Semantics", "rfc9110", false},
	}
	for _, tt := range tests {
		if got := titlesShareWord(tt.cited, tt.page); got != tt.want {
			t.Errorf("titlesShareWord(%q, %q) = %v, want %v", tt.cited, tt.page, got, tt.want)
		}
	}
}

func TestExtractTitle(t *testing.T) {
	got := extractTitle(strings.NewReader("<html><head><title>\n  Hello\n  World </title></head></html>"))
	if got != "Hello World" {
		t.Errorf("extractTitle = %q", got)
	}
	if got := extractTitle(strings.NewReader("<p>no title</p>")); got != "" {
		t.Errorf("extractTitle without title = %q", got)
	}
}
