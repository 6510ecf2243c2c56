package httpapi

import "net/http"

// registerRoutes wires every endpoint onto mux, mirroring the
// registerXRoutes(mux, h) convention: one free function handler per
// endpoint, each closing over the shared Handler.
func registerRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("/api/W2N", withClientTimeoutBudget(func(w http.ResponseWriter, r *http.Request) { handleW2NCreate(h, w, r) }))
	mux.HandleFunc("/api/W2N/", withClientTimeoutBudget(func(w http.ResponseWriter, r *http.Request) { handleW2NUpdate(h, w, r) }))

	mux.HandleFunc("/api/databases/", func(w http.ResponseWriter, r *http.Request) { handleGetDatabase(h, w, r) })

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) { handleAPIHealth(h, w, r) })
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { handleLegacyHealth(h, w, r) })

	mux.HandleFunc("/api/fetch-and-upload", func(w http.ResponseWriter, r *http.Request) { handleFetchAndUpload(h, w, r) })
	mux.HandleFunc("/api/upload-to-notion", func(w http.ResponseWriter, r *http.Request) { handleUploadToNotion(h, w, r) })

	mux.HandleFunc("/api/validate", func(w http.ResponseWriter, r *http.Request) { handleValidate(h, w, r) })
	mux.HandleFunc("/api/compare/", func(w http.ResponseWriter, r *http.Request) { handleCompare(h, w, r) })
}
