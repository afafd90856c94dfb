package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenEvents(t *testing.T) {
	r, closeFn, err := openEvents("-")
	if err != nil || r != os.Stdin {
		t.Fatalf("expected stdin for -, got %v (err=%v)", r, err)
	}
	closeFn()

	if _, _, err := openEvents(filepath.Join(t.TempDir(), "missing.ndjson")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReplayDeliversEveryMetric(t *testing.T) {
	var mu sync.Mutex
	var names []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var body struct {
			Metric struct {
				Name      string `json:"name"`
				SessionID string `json:"sessionID"`
			} `json:"metric"`
		}
		_ = json.Unmarshal(b, &body)
		mu.Lock()
		names = append(names, body.Metric.Name)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dir := t.TempDir()
	pagePath := writeFile(t, dir, "page.json", `{"url":"https://example.com/","innerWidth":1024,"innerHeight":768,"userAgent":"test"}`)
	eventsPath := writeFile(t, dir, "events.ndjson", `{"name":"TTFB","value":50,"delta":50}
{"name":"CLS","value":0.2,"delta":0.2,"entries":[{"value":0.2}]}
`)

	rootCmd.SetArgs([]string{"replay", "--page", pagePath, "--events", eventsPath, "--endpoint", srv.URL})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "CLS" || names[1] != "TTFB" {
		t.Fatalf("unexpected deliveries %v", names)
	}
}
