package httpapi

import (
	"net/http"
	"strconv"
	"time"
)

// defaultClientTimeoutBudget is used when a caller omits X-Client-Timeout-Budget.
const defaultClientTimeoutBudget = 180 * time.Second

// maxClientTimeoutBudget caps whatever a caller requests; conversions are not
// allowed to pin a request open indefinitely.
const maxClientTimeoutBudget = 480 * time.Second

// withClientTimeoutBudget wraps next in http.TimeoutHandler using the
// caller-supplied X-Client-Timeout-Budget header (seconds) as the deadline,
// so long conversions fail with a clean 503 instead of hanging past whatever
// the caller itself is willing to wait for. The deadline this installs on
// the request context is what every downstream Notion call's context
// ultimately inherits.
func withClientTimeoutBudget(next http.HandlerFunc) http.HandlerFunc {
	handler := func(w http.ResponseWriter, r *http.Request) {
		budget := clientTimeoutBudget(r)
		http.TimeoutHandler(http.HandlerFunc(next), budget, "conversion timed out").ServeHTTP(w, r)
	}
	return handler
}

func clientTimeoutBudget(r *http.Request) time.Duration {
	raw := r.Header.Get("X-Client-Timeout-Budget")
	if raw == "" {
		return defaultClientTimeoutBudget
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultClientTimeoutBudget
	}
	budget := time.Duration(seconds) * time.Second
	if budget > maxClientTimeoutBudget {
		return maxClientTimeoutBudget
	}
	return budget
}
