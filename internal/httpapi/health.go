package httpapi

import (
	"encoding/json"
	"net/http"
)

// handleAPIHealth implements GET /api/health.
func handleAPIHealth(h *Handler, w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"version": Version,
	})
}

// handleLegacyHealth implements GET /health, predating the {success,data}
// envelope; kept unwrapped for older clients/load balancers that only
// check top-level "status".
func handleLegacyHealth(h *Handler, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
