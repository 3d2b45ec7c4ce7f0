package webclient

import (
	"net/http"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Hop is a response that redirected the request elsewhere.
type Hop struct {
	URL        string
	StatusCode int
	Headers    http.Header
}

type Response struct {
	Request *Request
	// URL is where the final response came from. It differs from
	// Request.URL when redirects were followed.
	URL string
	// Redirects are the redirecting responses, oldest first.
	Redirects  []Hop
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
}
