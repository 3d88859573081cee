package slog

import "net/url"

// redact masks the token query parameter in u.
func redact(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	q := parsed.Query()
	if !q.Has("token") {
		return u
	}
	q.Set("token", "REDACTED")
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
