package webclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/resultfetch/internal/webclient"
)

// backend builds a WebClient able to reach ts.
type backend struct {
	name string
	new  func(t *testing.T, ts *httptest.Server) webclient.WebClient
}

func backends() []backend {
	return []backend{
		{
			name: "nethttp",
			new: func(t *testing.T, ts *httptest.Server) webclient.WebClient {
				httpClient := &http.Client{Timeout: 2 * time.Second}
				if ts != nil {
					httpClient = ts.Client()
					httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
						return http.ErrUseLastResponse
					}
				}
				c, err := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, httpClient)
				if err != nil {
					t.Fatalf("NewNetHTTPClient: %v", err)
				}
				return c
			},
		},
		{
			name: "fasthttp",
			new: func(t *testing.T, _ *httptest.Server) webclient.WebClient {
				c, err := webclient.NewFastHTTPClient(webclient.Config{Timeout: 2 * time.Second}, &noopLogger{}, nil)
				if err != nil {
					t.Fatalf("NewFastHTTPClient: %v", err)
				}
				return c
			},
		},
	}
}

// ─── Do: real HTTP round-trip via httptest ──────────────────────────────

func TestBackends_GET_ReturnsBodyAndHeaders(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "hello")
		http.SetCookie(w, &http.Cookie{Name: "a", Value: "1"})
		http.SetCookie(w, &http.Cookie{Name: "b", Value: "2"})
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "response body")
	}))
	t.Cleanup(ts.Close)

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			client := b.new(t, ts)
			defer client.Close()

			resp, err := client.Get(context.Background(), ts.URL+"/test")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected 200, got %d", resp.StatusCode)
			}
			if string(resp.Body) != "response body" {
				t.Errorf("expected 'response body', got %q", resp.Body)
			}
			if resp.Headers.Get("X-Custom") != "hello" {
				t.Errorf("expected X-Custom header 'hello', got %q", resp.Headers.Get("X-Custom"))
			}
			if got := resp.Headers.Values("Set-Cookie"); len(got) != 2 {
				t.Errorf("expected 2 Set-Cookie headers, got %v", got)
			}
			if resp.Request == nil || resp.Request.Method != http.MethodGet {
				t.Errorf("expected originating GET request on response, got %+v", resp.Request)
			}
		})
	}
}

func TestBackends_POST_SendsBodyAndHeaders(t *testing.T) {
	t.Parallel()

	type received struct {
		method, body, auth string
	}
	got := make(chan received, 2)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- received{method: r.Method, body: string(body), auth: r.Header.Get("Authorization")}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	for _, b := range backends() {
		client := b.new(t, ts)

		hdrs := http.Header{}
		hdrs.Set("Authorization", "Bearer test-token")
		resp, err := client.Do(context.Background(), &webclient.Request{
			Method:  "post",
			URL:     ts.URL + "/submit",
			Headers: hdrs,
			Body:    []byte("payload"),
		})
		client.Close()
		if err != nil {
			t.Fatalf("%s: Do: %v", b.name, err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("%s: expected 201, got %d", b.name, resp.StatusCode)
		}

		r := <-got
		if r.method != http.MethodPost || r.body != "payload" || r.auth != "Bearer test-token" {
			t.Errorf("%s: unexpected request on server: %+v", b.name, r)
		}
	}
}

func TestBackends_PropagateStatusCode(t *testing.T) {
	t.Parallel()
	codes := []int{200, 301, 404, 500}

	for _, b := range backends() {
		for _, code := range codes {
			t.Run(b.name+"/"+http.StatusText(code), func(t *testing.T) {
				t.Parallel()
				ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					if code == http.StatusMovedPermanently {
						w.Header().Set("Location", "/elsewhere")
					}
					w.WriteHeader(code)
				}))
				defer ts.Close()

				client := b.new(t, ts)
				defer client.Close()

				resp, err := client.Get(context.Background(), ts.URL)
				if err != nil {
					t.Fatalf("Get: %v", err)
				}
				if resp.StatusCode != code {
					t.Errorf("expected %d, got %d", code, resp.StatusCode)
				}
			})
		}
	}
}

func TestBackends_ConnectionRefused_ReturnsError(t *testing.T) {
	t.Parallel()

	for _, b := range backends() {
		client := b.new(t, nil)
		_, err := client.Get(context.Background(), "http://127.0.0.1:1") // port 1 is unlikely to be open
		client.Close()
		if err == nil {
			t.Fatalf("%s: expected error for connection refused", b.name)
		}
	}
}

func TestBackends_ContextCanceled_ReturnsError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	for _, b := range backends() {
		client := b.new(t, ts)

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // cancel immediately

		_, err := client.Get(ctx, ts.URL)
		client.Close()
		if err == nil {
			t.Fatalf("%s: expected error for canceled context", b.name)
		}
	}
}

// ─── Large response body ──────────────────────────────────────────────

func TestBackends_LargeBody(t *testing.T) {
	t.Parallel()
	largeBody := strings.Repeat("X", 1<<20) // 1 MiB
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, largeBody)
	}))
	defer ts.Close()

	for _, b := range backends() {
		client := b.new(t, ts)
		resp, err := client.Get(context.Background(), ts.URL)
		client.Close()
		if err != nil {
			t.Fatalf("%s: Get: %v", b.name, err)
		}
		if len(resp.Body) != 1<<20 {
			t.Errorf("%s: expected 1MiB body, got %d bytes", b.name, len(resp.Body))
		}
	}
}
