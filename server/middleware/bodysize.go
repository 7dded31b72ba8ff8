package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

const defaultMaxBodySize = 1 << 20

// BodySizeLimit returns middleware that restricts the request body to the
// given size string (e.g. "1MB", "512KB"). Unparseable sizes fall back
// to 1MB.
func BodySizeLimit(maxSize string) Middleware {
	size := parseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}

func parseSize(s string, fallback int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	units := []struct {
		suffix string
		shift  uint
	}{{"GB", 30}, {"MB", 20}, {"KB", 10}, {"B", 0}}
	for _, u := range units {
		if num, ok := strings.CutSuffix(s, u.suffix); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
			if err != nil || n <= 0 {
				return fallback
			}
			return n << u.shift
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
