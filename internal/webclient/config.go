package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientFastHTTP Client = "fasthttp"
)

// DefaultTimeout bounds a single round trip when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config selects and tunes a WebClient backend.
type Config struct {
	Client  Client
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
