package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"
)

// serviceKeyHeader carries server.api_key. It is separate from the Hevy
// credential, which travels in the body or the api-key header.
const serviceKeyHeader = "X-API-Key"

// APIKeyAuth guards plan and MCP routes with the service key. A caller that
// only sent its Hevy key gets a hint instead of a bare 401.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(serviceKeyHeader)
			if key == "" {
				msg := serviceKeyHeader + " header required"
				if r.Header.Get("api-key") != "" {
					msg += "; api-key is the Hevy key, not the service key"
				}
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: msg})
				return
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				writeJSON(w, http.StatusForbidden, errorBody{Error: serviceKeyHeader + " does not match server.api_key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogging logs one line per request. Health checks go to debug and
// 5xx responses to warn; the handler already logged the run failure itself.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			level := slog.LevelInfo
			switch {
			case r.URL.Path == "/healthz":
				level = slog.LevelDebug
			case sw.status >= http.StatusInternalServerError:
				level = slog.LevelWarn
			}
			log.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"remote", r.RemoteAddr,
				"duration", time.Since(start).Round(time.Millisecond),
			)
		})
	}
}

// CORS lets browser front ends post plan requests. api-key is allowed so the
// Hevy key can ride in a header.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, api-key, "+serviceKeyHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter records the status code and body size for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Flush keeps streamed MCP responses from sitting behind the logger.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
