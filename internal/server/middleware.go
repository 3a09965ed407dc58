package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
)

// requestIDMiddleware propagates X-Request-ID or generates one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

// gzipMiddleware compresses responses over 1 KiB for clients that accept it.
func gzipMiddleware(next http.Handler) http.Handler {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(1024),
		gzhttp.CompressionLevel(6),
	)
	if err != nil {
		return next
	}
	return wrapper(next)
}
