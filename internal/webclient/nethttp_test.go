package webclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raysh454/resultfetch/internal/logging"
	"github.com/raysh454/resultfetch/internal/webclient"
)

// noopLogger is a test-local logger implementation that discards all log messages
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, fields ...logging.Field) {}
func (n *noopLogger) Info(msg string, fields ...logging.Field)  {}
func (n *noopLogger) Warn(msg string, fields ...logging.Field)  {}
func (n *noopLogger) Error(msg string, fields ...logging.Field) {}
func (n *noopLogger) With(fields ...logging.Field) logging.Logger {
	return n
}

// TestNewNetHTTPClient_Construct verifies that NewNetHTTPClient returns a non-nil client
func TestNewNetHTTPClient_Construct(t *testing.T) {
	t.Parallel()
	cfg := webclient.Config{Client: webclient.ClientNetHTTP}
	logger := &noopLogger{}

	client, err := webclient.NewNetHTTPClient(cfg, logger, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}
	if client == nil {
		t.Fatal("NewNetHTTPClient returned nil client")
	}
	defer client.Close()
}

// TestNewNetHTTPClient_TimeoutFromConfig verifies the default http.Client honours cfg.Timeout
func TestNewNetHTTPClient_TimeoutFromConfig(t *testing.T) {
	t.Parallel()

	client, err := webclient.NewNetHTTPClient(webclient.Config{Timeout: 3 * time.Second}, &noopLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}
	defer client.Close()

	nhc, ok := client.(*webclient.NetHTTPClient)
	if !ok {
		t.Fatalf("expected *NetHTTPClient, got %T", client)
	}
	if got := nhc.HTTPClient().Timeout; got != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", got)
	}

	dflt, _ := webclient.NewNetHTTPClient(webclient.Config{}, nil, nil)
	if got := dflt.(*webclient.NetHTTPClient).HTTPClient().Timeout; got != webclient.DefaultTimeout {
		t.Errorf("expected default timeout, got %v", got)
	}
}

// TestNewNetHTTPClient_WithCustomClient verifies that a custom *http.Client can be injected
func TestNewNetHTTPClient_WithCustomClient(t *testing.T) {
	t.Parallel()
	customClient := &http.Client{Timeout: 7 * time.Second}

	client, err := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, customClient)
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}
	defer client.Close()
	if got := client.(*webclient.NetHTTPClient).HTTPClient().Timeout; got != 7*time.Second {
		t.Fatalf("expected injected client settings to be used, got timeout %v", got)
	}
	if customClient.Transport != nil {
		t.Fatal("expected injected client to be left unmodified")
	}
}

// TestNetHTTPClient_Close verifies that Close() does not panic and returns nil
func TestNetHTTPClient_Close(t *testing.T) {
	t.Parallel()

	client, err := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
}

func TestNetHTTPClient_Do_NilRequest_IsErrNilRequest(t *testing.T) {
	t.Parallel()

	client, _ := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, nil)
	defer client.Close()

	_, err := client.Do(t.Context(), nil)
	if !errors.Is(err, webclient.ErrNilRequest) {
		t.Fatalf("expected ErrNilRequest, got %v", err)
	}
}

// TestNetHTTPClient_RecordsRedirects verifies that the final URL and every
// redirecting response are reported on the Response.
func TestNetHTTPClient_RecordsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "first", Value: "1"})
		http.Redirect(w, r, "/middle", http.StatusFound)
	})
	mux.HandleFunc("/middle", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end/page", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/end/page", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "last", Value: "2"})
		_, _ = w.Write([]byte("done"))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client, err := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, ts.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}
	defer client.Close()

	resp, err := client.Get(context.Background(), ts.URL+"/start")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.URL != ts.URL+"/end/page" {
		t.Errorf("expected final URL %q, got %q", ts.URL+"/end/page", resp.URL)
	}
	if resp.Request.URL != ts.URL+"/start" {
		t.Errorf("expected request URL to be kept, got %q", resp.Request.URL)
	}
	if len(resp.Redirects) != 2 {
		t.Fatalf("expected 2 redirects, got %d", len(resp.Redirects))
	}
	if resp.Redirects[0].URL != ts.URL+"/start" || resp.Redirects[0].StatusCode != http.StatusFound {
		t.Errorf("unexpected first hop: %+v", resp.Redirects[0])
	}
	if got := resp.Redirects[0].Headers.Get("Set-Cookie"); got != "first=1" {
		t.Errorf("expected first hop Set-Cookie, got %q", got)
	}
	if resp.Redirects[1].URL != ts.URL+"/middle" || resp.Redirects[1].StatusCode != http.StatusMovedPermanently {
		t.Errorf("unexpected second hop: %+v", resp.Redirects[1])
	}
	if got := resp.Headers.Get("Set-Cookie"); got != "last=2" {
		t.Errorf("expected final Set-Cookie, got %q", got)
	}
}

// TestNetHTTPClient_NoRedirects verifies a direct response reports no hops.
func TestNetHTTPClient_NoRedirects(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(ts.Close)

	client, err := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, ts.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}
	defer client.Close()

	resp, err := client.Get(context.Background(), ts.URL+"/direct")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.URL != ts.URL+"/direct" {
		t.Errorf("expected final URL %q, got %q", ts.URL+"/direct", resp.URL)
	}
	if resp.Redirects != nil {
		t.Errorf("expected no redirects, got %+v", resp.Redirects)
	}
}
