package fixtureserver

import "net/http"

// CookieFixture is one cookie the /cookies route sets.
type CookieFixture struct {
	Name     string `yaml:"name"`
	Value    string `yaml:"value"`
	Domain   string `yaml:"domain"`
	Path     string `yaml:"path"`
	MaxAge   int    `yaml:"max_age"`
	Secure   bool   `yaml:"secure"`
	HttpOnly bool   `yaml:"http_only"`
	SameSite string `yaml:"same_site"`
}

// Config holds configuration for the fixture server.
type Config struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`

	// Cookies are set, in order, on every /cookies response.
	Cookies []CookieFixture `yaml:"cookies"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr: "127.0.0.1:9999",
		Cookies: []CookieFixture{
			{Name: "session", Value: "c2Vzc2lvbi0x", Path: "/", HttpOnly: true, SameSite: "Lax"},
			{Name: "prefs", Value: "theme=dark", Path: "/", MaxAge: 3600},
			{Name: "tracking", Value: "abc123", Path: "/", Secure: true, SameSite: "None"},
		},
	}
}

func (c CookieFixture) httpCookie() *http.Cookie {
	cookie := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		MaxAge:   c.MaxAge,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
	switch c.SameSite {
	case "Strict":
		cookie.SameSite = http.SameSiteStrictMode
	case "Lax":
		cookie.SameSite = http.SameSiteLaxMode
	case "None":
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
