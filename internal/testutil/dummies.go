// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raysh454/resultfetch/internal/logging"
	"github.com/raysh454/resultfetch/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ErrorMessages returns a copy of the recorded error messages.
func (l *DummyLogger) ErrorMessages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Errors...)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// ErrDummyFetch is returned for URLs listed in DummyWebClient.FailURLs.
var ErrDummyFetch = errors.New("dummy fetch fail")

// DummyWebClient implements webclient.WebClient.
// By default it returns body "ok:<url>" with status 200 and no headers.
// Set Headers[url] to script response headers, Redirects[url] to script the
// hops that led to the final response at FinalURLs[url], FailURLs[url] = true
// to force an error for a specific URL, and Gate to hold every request until
// it is closed.
type DummyWebClient struct {
	ResponseDelay time.Duration
	FailURLs      map[string]bool
	Headers       map[string]http.Header
	Redirects     map[string][]webclient.Hop
	FinalURLs     map[string]string
	Gate          chan struct{}

	mu       sync.Mutex
	Requests []*webclient.Request
	closed   atomic.Bool
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	if d.Gate != nil {
		select {
		case <-d.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.FailURLs[req.URL] {
		return nil, ErrDummyFetch
	}

	finalURL := req.URL
	if u, ok := d.FinalURLs[req.URL]; ok {
		finalURL = u
	}

	return &webclient.Response{
		Request:    req,
		URL:        finalURL,
		Redirects:  d.Redirects[req.URL],
		Body:       []byte("ok:" + req.URL),
		Headers:    d.Headers[req.URL].Clone(),
		StatusCode: http.StatusOK,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: http.MethodGet, URL: url})
}

func (d *DummyWebClient) Close() error {
	d.closed.Store(true)
	return nil
}

// Closed reports whether Close was called.
func (d *DummyWebClient) Closed() bool {
	return d.closed.Load()
}

// RequestCount returns the number of requests seen so far.
func (d *DummyWebClient) RequestCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Requests)
}
