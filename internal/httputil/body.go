// Package httputil holds small helpers shared by the HTTP transport and server.
package httputil

import (
	"errors"
	"io"
)

// DefaultMaxBodyBytes caps registry payloads at 1MiB.
const DefaultMaxBodyBytes int64 = 1 << 20

// ErrBodyTooLarge is returned when a body exceeds its cap.
var ErrBodyTooLarge = errors.New("body too large")

// ReadCapped reads at most limit bytes from r. When r holds more, the first
// limit bytes are returned together with ErrBodyTooLarge. A non-positive
// limit reads everything.
func ReadCapped(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}

	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return body, err
	}
	if int64(len(body)) > limit {
		return body[:limit], ErrBodyTooLarge
	}
	return body, nil
}
