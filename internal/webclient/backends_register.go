package webclient

import (
	"github.com/raysh454/resultfetch/internal/logging"
)

// RegisterDefaultBackends registers the nethttp and fasthttp backends.
// NewWebClient calls it once on first use.
func RegisterDefaultBackends() {
	RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})

	RegisterBackend(string(ClientFastHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewFastHTTPClient(cfg, logger, nil)
	})
}
