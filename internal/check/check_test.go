package check

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperifyio/linkcheck/internal/extract"
)

func TestCheck_Working(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := &Checker{UserAgent: "linkcheck-test", Timeout: 2 * time.Second}
	res := c.Check(context.Background(), extract.Link{URL: srv.URL})
	if res.Outcome != OutcomeWorking {
		t.Fatalf("outcome = %v, err = %v", res.Outcome, res.Err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("status = %d", res.StatusCode)
	}
}

func TestCheck_BrokenStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := &Checker{Timeout: 2 * time.Second}
	res := c.Check(context.Background(), extract.Link{URL: srv.URL + "/missing"})
	if res.Outcome != OutcomeBroken {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if res.StatusCode != 404 {
		t.Fatalf("status = %d", res.StatusCode)
	}
}

func TestCheck_HeadFallsBackToGet(t *testing.T) {
	var sawGet atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet.Store(true)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := &Checker{Timeout: 2 * time.Second}
	res := c.Check(context.Background(), extract.Link{URL: srv.URL})
	if !sawGet.Load() {
		t.Fatalf("expected GET fallback after HEAD 405")
	}
	if res.Outcome != OutcomeWorking || res.StatusCode != 200 {
		t.Fatalf("outcome = %v status = %d", res.Outcome, res.StatusCode)
	}
}

func TestCheck_GetFallbackFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		time.Sleep(1 * time.Second)
	}))
	defer srv.Close()

	c := &Checker{Timeout: 200 * time.Millisecond}
	res := c.Check(context.Background(), extract.Link{URL: srv.URL})
	if res.Outcome != OutcomeError {
		t.Fatalf("outcome = %v, status = %d", res.Outcome, res.StatusCode)
	}
	if res.Reason != "timeout" {
		t.Fatalf("reason = %q, err = %v", res.Reason, res.Err)
	}
}

func TestCheck_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Second)
	}))
	defer srv.Close()

	c := &Checker{Timeout: 100 * time.Millisecond}
	res := c.Check(context.Background(), extract.Link{URL: srv.URL})
	if res.Outcome != OutcomeError {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if res.Reason != "timeout" {
		t.Fatalf("reason = %q, err = %v", res.Reason, res.Err)
	}
}

func TestCheck_InvalidURL(t *testing.T) {
	c := &Checker{}
	res := c.Check(context.Background(), extract.Link{URL: "ftp://example.com/file"})
	if res.Outcome != OutcomeBroken {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if res.Reason != "invalid URL" {
		t.Fatalf("reason = %q", res.Reason)
	}
}

func TestCheck_SkipHost(t *testing.T) {
	c := &Checker{SkipHosts: []string{"example.com"}}
	for _, u := range []string{"https://example.com/a", "https://sub.example.com/b"} {
		res := c.Check(context.Background(), extract.Link{URL: u})
		if res.Outcome != OutcomeSkipped {
			t.Fatalf("outcome for %s = %v", u, res.Outcome)
		}
	}
	res := c.Check(context.Background(), extract.Link{URL: "https://notexample.com.invalid/"})
	if res.Outcome == OutcomeSkipped {
		t.Fatalf("unrelated host was skipped")
	}
}

func TestCheckAll_PreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(500)
			return
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	links := []extract.Link{
		{URL: srv.URL + "/a"},
		{URL: srv.URL + "/bad"},
		{URL: srv.URL + "/c"},
	}
	c := &Checker{Timeout: 2 * time.Second, MaxConcurrent: 2}
	results := c.CheckAll(context.Background(), links)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, l := range links {
		if results[i].Link.URL != l.URL {
			t.Fatalf("result %d is %s, want %s", i, results[i].Link.URL, l.URL)
		}
	}
	if results[1].Outcome != OutcomeBroken {
		t.Fatalf("middle result outcome = %v", results[1].Outcome)
	}
}

func TestCheckAll_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	links := []extract.Link{
		{URL: srv.URL + "/a"},
		{URL: srv.URL + "/b"},
		{URL: srv.URL + "/c"},
	}
	c := &Checker{Timeout: 2 * time.Second, MaxConcurrent: 2}
	results := c.CheckAll(ctx, links)
	if len(results) != len(links) {
		t.Fatalf("expected %d results, got %d", len(links), len(results))
	}
	for i, res := range results {
		if res.Outcome != OutcomeError {
			t.Fatalf("result %d outcome = %v", i, res.Outcome)
		}
		if res.Reason != "canceled" {
			t.Fatalf("result %d reason = %q, err = %v", i, res.Reason, res.Err)
		}
	}
}

func TestCheckAll_BoundsConcurrency(t *testing.T) {
	var inFlight int32
	var maxObserved int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		curr := atomic.AddInt32(&inFlight, 1)
		for {
			prev := atomic.LoadInt32(&maxObserved)
			if curr <= prev || atomic.CompareAndSwapInt32(&maxObserved, prev, curr) {
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(200)
		atomic.AddInt32(&inFlight, -1)
	}))
	defer srv.Close()

	links := make([]extract.Link, 6)
	for i := range links {
		links[i] = extract.Link{URL: srv.URL}
	}
	c := &Checker{Timeout: 5 * time.Second, MaxConcurrent: 2}
	_ = c.CheckAll(context.Background(), links)

	if maxObserved > 2 {
		t.Fatalf("expected max concurrency <= 2, got %d", maxObserved)
	}
}
