package httpkit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient()
	if c.Timeout != 30*time.Second {
		t.Errorf("default timeout = %v", c.Timeout)
	}
	if _, ok := c.Transport.(*userAgentTransport); !ok {
		t.Errorf("expected userAgentTransport, got %T", c.Transport)
	}
}

func TestUserAgentInjection(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewClient()
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	DrainAndClose(resp.Body, 1024)

	if !strings.HasPrefix(got, "datasage/") {
		t.Errorf("User-Agent = %q, want datasage/ prefix", got)
	}
}

func TestUserAgentNotOverridden(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewClient()
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "custom/1.0")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	DrainAndClose(resp.Body, 1024)

	if got != "custom/1.0" {
		t.Errorf("User-Agent = %q, want custom/1.0", got)
	}
}

func TestWithoutUserAgent(t *testing.T) {
	c := NewClient(WithoutUserAgent())
	if _, ok := c.Transport.(*userAgentTransport); ok {
		t.Error("userAgentTransport should be absent")
	}
}

func TestWithTimeout(t *testing.T) {
	c := NewClient(WithTimeout(0))
	if c.Timeout != 0 {
		t.Errorf("timeout = %v, want 0", c.Timeout)
	}
}

func TestDrainAndCloseNil(t *testing.T) {
	DrainAndClose(nil, 0) // must not panic
}
