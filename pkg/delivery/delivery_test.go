package delivery

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sw33tLie/rumscope/pkg/report"
	"github.com/sw33tLie/rumscope/pkg/session"
)

type recorder struct {
	mu        sync.Mutex
	methods   []string
	bodies    []map[string]map[string]any
	status    int
	failFirst int // answer this many requests with 500 before status
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	var body map[string]map[string]any
	_ = json.Unmarshal(b, &body)

	rec.mu.Lock()
	rec.methods = append(rec.methods, r.Method)
	rec.bodies = append(rec.bodies, body)
	status := rec.status
	if rec.failFirst > 0 {
		rec.failFirst--
		status = http.StatusInternalServerError
	}
	rec.mu.Unlock()

	if status == 0 {
		status = http.StatusNoContent
	}
	w.WriteHeader(status)
}

func (rec *recorder) count() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.bodies)
}

func ttfb(value float64) report.LoadTiming {
	return report.LoadTiming{
		Name:    "TTFB",
		Value:   value,
		Delta:   value,
		Context: session.Context{SessionID: "_abcdefghi", Pathname: "/"},
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New(Config{}); err != ErrNoEndpoint {
		t.Fatalf("expected ErrNoEndpoint, got %v", err)
	}
}

func TestDeliverPutsEnvelope(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	ch, err := New(Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ch.Deliver(ttfb(80))
	ch.Wait()

	if rec.count() != 1 {
		t.Fatalf("expected 1 request, got %d", rec.count())
	}
	if rec.methods[0] != http.MethodPut {
		t.Fatalf("expected PUT, got %s", rec.methods[0])
	}
	metric := rec.bodies[0]["metric"]
	if metric["name"] != "TTFB" || metric["ttfb_value"] != 80.0 || metric["sessionID"] != "_abcdefghi" {
		t.Fatalf("unexpected body %v", rec.bodies[0])
	}
}

func TestDeliverUnreachableEndpointDoesNotBlock(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	ch, err := New(Config{Endpoint: deadURL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()
	ch.Deliver(ttfb(1))
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("Deliver blocked the caller")
	}
	ch.Wait()

	// Later reports still go out once the endpoint is back.
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()
	ch2, _ := New(Config{Endpoint: srv.URL})
	ch2.Deliver(ttfb(2))
	ch2.Deliver(ttfb(3))
	ch2.Wait()
	if rec.count() != 2 {
		t.Fatalf("expected 2 requests after failure, got %d", rec.count())
	}
}

func TestDeliverContinuesAfterFailure(t *testing.T) {
	rec := &recorder{failFirst: 1}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	ch, err := New(Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ch.Deliver(ttfb(1))
	ch.Wait()
	if rec.count() != 1 {
		t.Fatalf("expected the failing attempt to reach the server, got %d requests", rec.count())
	}

	ch.Deliver(ttfb(2))
	ch.Deliver(ttfb(3))
	ch.Wait()
	if rec.count() != 3 {
		t.Fatalf("expected 3 requests on the same channel, got %d", rec.count())
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	seen := map[float64]bool{}
	for _, b := range rec.bodies[1:] {
		v, _ := b["metric"]["ttfb_value"].(float64)
		seen[v] = true
	}
	if !seen[2] || !seen[3] {
		t.Fatalf("expected reports 2 and 3 after the failure, got %v", rec.bodies[1:])
	}
}

func TestDeliverDoesNotRetryByDefault(t *testing.T) {
	rec := &recorder{status: http.StatusInternalServerError}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	ch, _ := New(Config{Endpoint: srv.URL})
	ch.Deliver(ttfb(1))
	ch.Wait()
	if rec.count() != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", rec.count())
	}
}

func TestDeliverBoundedRetry(t *testing.T) {
	rec := &recorder{status: http.StatusBadGateway}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	ch, _ := New(Config{Endpoint: srv.URL, Retries: 2})
	ch.client.RetryWaitMin = time.Millisecond
	ch.client.RetryWaitMax = time.Millisecond
	ch.Deliver(ttfb(1))
	ch.Wait()
	if rec.count() != 3 {
		t.Fatalf("expected 3 attempts, got %d", rec.count())
	}
}

func TestDeliverConcurrentReports(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	ch, _ := New(Config{Endpoint: srv.URL})
	for i := 0; i < 20; i++ {
		ch.Deliver(ttfb(float64(i)))
	}
	ch.Wait()
	if rec.count() != 20 {
		t.Fatalf("expected 20 requests, got %d", rec.count())
	}
}
