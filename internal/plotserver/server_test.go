package plotserver

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	ts := httptest.NewServer(New("localhost", 0, dir, discard()).Handler())
	t.Cleanup(ts.Close)
	return ts, dir
}

func TestServeFile(t *testing.T) {
	ts, dir := newTestServer(t)
	if err := os.WriteFile(filepath.Join(dir, "plot_x.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(ts.URL + "/plot_x.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Errorf("Allow-Headers = %q", got)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "png-bytes" {
		t.Errorf("body = %q", body)
	}
}

func TestMissingFile(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/plot_none.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestPreflight(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/plot_x.png", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	ts, dir := newTestServer(t)

	secret := filepath.Join(filepath.Dir(dir), "secret.txt")
	if err := os.WriteFile(secret, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The raw path form never reaches the handler as a sibling path;
	// the file server cleans it inside the root.
	resp, err := http.Get(ts.URL + "/../secret.txt")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) == "nope" {
		t.Error("traversal escaped the plots directory")
	}
}

func TestSweepRemovesOnlyAgedPlots(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	old := filepath.Join(dir, "plot_old.png")
	fresh := filepath.Join(dir, "plot_fresh.png")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, fresh, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	stale := now.Add(-2 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(other, stale, stale); err != nil {
		t.Fatal(err)
	}

	NewJanitor(dir, 0, 0, discard()).sweep(now)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("aged plot survived the sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh plot removed: %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("non-plot file removed: %v", err)
	}
}

func TestSweepBoundary(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	path := filepath.Join(dir, "plot_edge.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Just inside the retention window.
	recent := now.Add(-DefaultRetention + time.Minute)
	if err := os.Chtimes(path, recent, recent); err != nil {
		t.Fatal(err)
	}

	NewJanitor(dir, 0, 0, discard()).sweep(now)

	if _, err := os.Stat(path); err != nil {
		t.Errorf("in-window plot removed: %v", err)
	}
}
