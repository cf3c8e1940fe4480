package observability

import (
	"net/http"
	"strings"
)

const redacted = "[REDACTED]"

var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"x-vault-token": true,
	"cookie":        true,
	"set-cookie":    true,
}

// MaskAPIKey keeps the first four characters of key and hides the rest.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return redacted
	}
	return key[:4] + "****"
}

// RedactHeaders returns a copy of h with credential headers replaced.
func RedactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if sensitiveHeaders[strings.ToLower(k)] {
			out[k] = []string{redacted}
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range []string{"api_key", "apikey", "token", "secret", "password"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
