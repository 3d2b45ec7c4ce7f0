// Package fetchclient issues single-shot asynchronous HTTP GET requests and
// hands exactly one result to the caller's completion callback.
package fetchclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/resultfetch/internal/logging"
	"github.com/raysh454/resultfetch/internal/result"
	"github.com/raysh454/resultfetch/internal/webclient"
)

// Client tracks its own in-flight requests; it holds no process-wide state.
// Callbacks run on the request's goroutine and must not call Wait or Close.
type Client struct {
	wc     webclient.WebClient
	logger logging.Logger

	mu      sync.Mutex
	pending map[uuid.UUID]*PendingRequest
	closed  bool
	wg      sync.WaitGroup
}

// New returns a Client that sends its requests through wc.
func New(wc webclient.WebClient, logger logging.Logger) (*Client, error) {
	if wc == nil {
		return nil, errors.New("fetchclient: webclient is nil")
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Client{
		wc:      wc,
		logger:  logger.With(logging.Field{Key: "component", Value: "fetchclient"}),
		pending: make(map[uuid.UUID]*PendingRequest),
	}, nil
}

// FetchBody GETs rawURL and delivers the response body. Any response that
// arrives counts as success, whatever its status code.
func (c *Client) FetchBody(rawURL string, onComplete func(result.Result[[]byte])) error {
	return fetch(c, rawURL, KindBody, onComplete, func(_ *url.URL, resp *webclient.Response) []byte {
		if resp.Body == nil {
			return []byte{}
		}
		return resp.Body
	})
}

// FetchCookies GETs rawURL and delivers the cookies set along the way:
// those of every redirecting response first, then the final response's.
// Each response's cookies default their Domain and Path from the URL that
// response came from. A response chain without Set-Cookie headers yields an
// empty, non-nil slice.
func (c *Client) FetchCookies(rawURL string, onComplete func(result.Result[[]Cookie])) error {
	return fetch(c, rawURL, KindCookies, onComplete, func(u *url.URL, resp *webclient.Response) []Cookie {
		received := resp.FetchedAt
		if received.IsZero() {
			received = time.Now()
		}
		cookies := []Cookie{}
		for _, hop := range resp.Redirects {
			cookies = append(cookies, ParseCookies(hop.Headers, responseURL(hop.URL, u), received)...)
		}
		return append(cookies, ParseCookies(resp.Headers, responseURL(resp.URL, u), received)...)
	})
}

// responseURL parses the URL a response came from, falling back to the
// request URL when the backend did not report one.
func responseURL(raw string, requested *url.URL) *url.URL {
	if raw == "" {
		return requested
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return requested
	}
	return u
}

func fetch[T any](c *Client, rawURL string, kind Kind, onComplete func(result.Result[T]), extract func(*url.URL, *webclient.Response) T) error {
	if onComplete == nil {
		return ErrNilCallback
	}
	u, err := parseTarget(rawURL)
	if err != nil {
		return err
	}
	target := u.String()

	id, err := c.track(target, kind)
	if err != nil {
		return err
	}
	c.logger.Debug("fetch issued",
		logging.Field{Key: "id", Value: id.String()},
		logging.Field{Key: "kind", Value: string(kind)},
		logging.Field{Key: "url", Value: target})

	go func() {
		defer c.wg.Done()

		c.setState(id, StateInFlight)
		resp, err := c.wc.Get(context.Background(), target)

		var r result.Result[T]
		if err != nil {
			r = result.Failure[T](&TransportError{URL: target, Err: err})
		} else {
			r = result.Success(extract(u, resp))
		}

		c.untrack(id)
		c.logger.Debug("fetch completed",
			logging.Field{Key: "id", Value: id.String()},
			logging.Field{Key: "kind", Value: string(kind)},
			logging.Field{Key: "url", Value: target},
			logging.Field{Key: "success", Value: r.IsSuccess()})

		c.deliver(id, func() { onComplete(r) })
	}()
	return nil
}

func parseTarget(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "empty url"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, &InvalidURLError{URL: raw, Reason: "parse", Err: err}
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return nil, &InvalidURLError{URL: raw, Reason: "missing scheme"}
	default:
		return nil, &InvalidURLError{URL: raw, Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if u.Hostname() == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "missing host"}
	}
	return u, nil
}

func (c *Client) track(target string, kind Kind) (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return uuid.Nil, ErrClientClosed
	}
	id := uuid.New()
	c.pending[id] = &PendingRequest{
		ID:        id,
		URL:       target,
		Kind:      kind,
		State:     StateCreated,
		StartedAt: time.Now(),
	}
	c.wg.Add(1)
	return id, nil
}

func (c *Client) setState(id uuid.UUID, s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pr, ok := c.pending[id]; ok {
		pr.State = s
	}
}

func (c *Client) untrack(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

// deliver runs the callback. A panicking callback is logged, not propagated.
func (c *Client) deliver(id uuid.UUID, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			c.logger.Error("completion callback panicked",
				logging.Field{Key: "id", Value: id.String()},
				logging.Field{Key: "panic", Value: fmt.Sprint(p)})
		}
	}()
	fn()
}

// Pending returns a snapshot of the requests whose callbacks have not fired,
// oldest first.
func (c *Client) Pending() []PendingRequest {
	c.mu.Lock()
	out := make([]PendingRequest, 0, len(c.pending))
	for _, pr := range c.pending {
		out = append(out, *pr)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Wait blocks until every issued request has delivered its result.
func (c *Client) Wait() {
	c.wg.Wait()
}

// Close rejects new fetches, waits for in-flight ones and closes the
// underlying web client.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()
	if err := c.wc.Close(); err != nil {
		return fmt.Errorf("close webclient: %w", err)
	}
	return nil
}
