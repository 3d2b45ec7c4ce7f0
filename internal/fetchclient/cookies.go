package fetchclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

// Cookie is one parsed Set-Cookie response header.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
	// Expires is nil for session cookies. Max-Age, when present, wins over
	// the Expires attribute and is resolved against the receipt time.
	Expires  *time.Time
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// ParseCookies parses every Set-Cookie header in header. Lines that do not
// parse as a cookie are skipped. The result is never nil.
//
// Domain defaults to the host of requestURL and is lower-cased ASCII; Path
// defaults to the directory of the request path.
func ParseCookies(header http.Header, requestURL *url.URL, now time.Time) []Cookie {
	lines := header.Values("Set-Cookie")
	cookies := make([]Cookie, 0, len(lines))

	for _, line := range lines {
		hc, err := http.ParseSetCookie(line)
		if err != nil {
			continue
		}
		cookies = append(cookies, toCookie(hc, requestURL, now))
	}
	return cookies
}

func toCookie(hc *http.Cookie, requestURL *url.URL, now time.Time) Cookie {
	c := Cookie{
		Name:     hc.Name,
		Value:    hc.Value,
		Domain:   normalizeDomain(hc.Domain),
		Path:     hc.Path,
		Secure:   hc.Secure,
		HttpOnly: hc.HttpOnly,
		SameSite: hc.SameSite,
	}

	if c.Domain == "" && requestURL != nil {
		c.Domain = normalizeDomain(requestURL.Hostname())
	}
	if c.Path == "" || !strings.HasPrefix(c.Path, "/") {
		c.Path = defaultPath(requestURL)
	}

	switch {
	case hc.MaxAge < 0:
		exp := time.Unix(0, 0).UTC()
		c.Expires = &exp
	case hc.MaxAge > 0:
		exp := now.Add(time.Duration(hc.MaxAge) * time.Second).UTC()
		c.Expires = &exp
	case !hc.Expires.IsZero():
		exp := hc.Expires.UTC()
		c.Expires = &exp
	}
	return c
}

func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "."))
	if d == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(d); err == nil {
		return ascii
	}
	return d
}

// defaultPath is the RFC 6265 section 5.1.4 default-path of u.
func defaultPath(u *url.URL) string {
	if u == nil || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	i := strings.LastIndex(u.Path, "/")
	if i == 0 {
		return "/"
	}
	return u.Path[:i]
}
