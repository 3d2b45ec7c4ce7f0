package webclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/raysh454/resultfetch/internal/logging"
)

// FastHTTPClient is a fasthttp backed implementation of webclient.
// Redirects are not followed; the first response is returned as is.
type FastHTTPClient struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  logging.Logger
}

// NewFastHTTPClient builds a fasthttp backend. A nil client gets a default
// one whose read and write timeouts follow cfg.
func NewFastHTTPClient(cfg Config, logger logging.Logger, client *fasthttp.Client) (WebClient, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientFastHTTP)})

	timeout := cfg.timeout()
	if client == nil {
		client = &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,

			// Avoid sending the default User-Agent which is "fasthttp".
			NoDefaultUserAgentHeader: true,
		}
	}

	componentLogger.Debug("created fasthttp webclient",
		logging.Field{Key: "timeout", Value: timeout.String()})

	return &FastHTTPClient{
		client:  client,
		timeout: timeout,
		logger:  componentLogger,
	}, nil
}

// Do executes req with fasthttp. The round trip ends at the earlier of the
// context deadline and the configured timeout.
func (fc *FastHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fasthttp do: %w", err)
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	fc.logger.Debug("sending http request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL})

	freq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(freq)
	fresp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(fresp)

	freq.Header.SetMethod(method)
	freq.SetRequestURI(req.URL)
	for k, vs := range req.Headers {
		for _, v := range vs {
			freq.Header.Add(k, v)
		}
	}
	if len(req.Body) > 0 {
		freq.SetBody(req.Body)
	}

	deadline := time.Now().Add(fc.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := fc.client.DoDeadline(freq, fresp, deadline); err != nil {
		fc.logger.Warn("http request failed",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("fasthttp do: %w", err)
	}

	body, err := fresp.BodyUncompressed()
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	headers := make(http.Header)
	fresp.Header.VisitAll(func(k, v []byte) {
		headers.Add(string(k), string(v))
	})

	return &Response{
		Request:    req,
		URL:        req.URL,
		Body:       append([]byte(nil), body...),
		Headers:    headers,
		StatusCode: fresp.StatusCode(),
		FetchedAt:  time.Now(),
	}, nil
}

// Get is a convenience method for simple GET requests
func (fc *FastHTTPClient) Get(ctx context.Context, url string) (*Response, error) {
	return fc.Do(ctx, &Request{
		Method: http.MethodGet,
		URL:    url,
	})
}

func (fc *FastHTTPClient) Close() error {
	fc.logger.Debug("closing fasthttp webclient")
	fc.client.CloseIdleConnections()
	return nil
}
