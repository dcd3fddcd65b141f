package gateway

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AuthMiddleware enforces API key authentication.
// It checks the SMARTVAULT_API_KEY environment variable.
// If the variable is not set, it logs a warning and allows all requests (INSECURE mode).
// If set, it requires the Authorization header to contain "Bearer <key>".
func AuthMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	apiKey := os.Getenv("SMARTVAULT_API_KEY")
	if apiKey == "" {
		logger.Warn("Running in INSECURE mode: SMARTVAULT_API_KEY is not set. All requests are allowed.")
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			http.Error(w, "Unauthorized: Invalid API Key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimitMiddleware applies a per-client token bucket. Idle client entries
// are pruned lazily so the map cannot grow without bound.
func RateLimitMiddleware(requestsPerSecond, burst int, next http.Handler) http.Handler {
	m := &clientLimiters{
		rps:     requestsPerSecond,
		burst:   burst,
		entries: make(map[string]*limiterEntry),
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !m.allow(host) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type clientLimiters struct {
	rps     int
	burst   int
	mu      sync.Mutex
	entries map[string]*limiterEntry
	lastGC  time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func (m *clientLimiters) allow(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if now.Sub(m.lastGC) > 5*time.Minute {
		for k, e := range m.entries {
			if now.Sub(e.lastAccess) > 10*time.Minute {
				delete(m.entries, k)
			}
		}
		m.lastGC = now
	}

	entry, ok := m.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(m.rps), m.burst)}
		m.entries[key] = entry
	}
	entry.lastAccess = now
	return entry.limiter.Allow()
}
