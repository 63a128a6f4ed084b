package env

import (
	"net/http"
	"net/url"
	"strings"
)

// sensitiveHeaders are masked by RedactHeaders. Keys are canonical.
var sensitiveHeaders = map[string]bool{
	"Authorization":       true,
	"Proxy-Authorization": true,
	"Cookie":              true,
	"Set-Cookie":          true,
	"X-Qalabs-Token":      true,
}

// sensitiveParams are masked in URL query strings.
var sensitiveParams = []string{"token", "access_token"}

// RedactSecret masks a secret, keeping its first and last 4
// characters. Secrets of 8 characters or fewer are fully masked.
func RedactSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}

// RedactAuthorization masks the credential of an Authorization
// value and keeps its scheme, so "Bearer abc" stays readable as a
// bearer header.
func RedactAuthorization(value string) string {
	scheme, cred, ok := strings.Cut(value, " ")
	if !ok {
		return RedactSecret(value)
	}
	return scheme + " " + RedactSecret(cred)
}

// RedactURL masks the password and token query parameters of a
// URL. Unparsable input is returned unchanged.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.User != nil {
		if password, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), RedactSecret(password))
		}
	}
	if u.RawQuery != "" {
		q := u.Query()
		changed := false
		for _, p := range sensitiveParams {
			if v := q.Get(p); v != "" {
				q.Set(p, RedactSecret(v))
				changed = true
			}
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}
	return u.String()
}

// RedactHeaders returns a copy of h with credentials masked. Only
// the first value of each header is kept.
func RedactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		key := http.CanonicalHeaderKey(k)
		v := h.Get(k)
		switch {
		case key == "Authorization" || key == "Proxy-Authorization":
			out[key] = RedactAuthorization(v)
		case sensitiveHeaders[key]:
			out[key] = RedactSecret(v)
		default:
			out[key] = v
		}
	}
	return out
}
