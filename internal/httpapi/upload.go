package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/amberpixels/sn2n/internal/apperror"
)

type fetchAndUploadRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// handleFetchAndUpload implements POST /api/fetch-and-upload: downloads a
// remote file and re-uploads it through Notion's file upload endpoint, for
// assets referenced by URL in content that isn't reachable by Notion
// itself (ServiceNow-authenticated attachments, for example).
func handleFetchAndUpload(h *Handler, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	var req fetchAndUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidInput, "malformed JSON body", err), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "url is required"), http.StatusBadRequest)
		return
	}

	fetchReq, err := http.NewRequestWithContext(r.Context(), http.MethodGet, req.URL, nil)
	if err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidInput, "invalid url", err), http.StatusBadRequest)
		return
	}

	resp, err := http.DefaultClient.Do(fetchReq)
	if err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidInput, "failed to fetch url", err), http.StatusBadRequest)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		writeError(w, apperror.New(apperror.CodeInvalidInput, fmt.Sprintf("source returned status %d", resp.StatusCode)), http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInternal, "failed to read fetched content", err), http.StatusInternalServerError)
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = path.Base(req.URL)
	}
	contentType := resp.Header.Get("Content-Type")

	result, err := h.Client.UploadFile(r.Context(), filename, contentType, content)
	if err != nil {
		writeError(w, apperror.Wrap(apperror.CodeNotionUnreachable, "failed to upload file", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"fileUploadId": result.FileUploadID,
		"fileName":     result.FileName,
	})
}

type uploadToNotionRequest struct {
	Data     string `json:"data"`
	Filename string `json:"filename"`
}

// handleUploadToNotion implements POST /api/upload-to-notion: accepts
// inline base64 (optionally as a data: URI) and uploads it directly.
func handleUploadToNotion(h *Handler, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	var req uploadToNotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidInput, "malformed JSON body", err), http.StatusBadRequest)
		return
	}
	if req.Data == "" || req.Filename == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "data and filename are required"), http.StatusBadRequest)
		return
	}

	payload, contentType := splitDataURI(req.Data)
	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidInput, "data is not valid base64", err), http.StatusBadRequest)
		return
	}

	result, err := h.Client.UploadFile(r.Context(), req.Filename, contentType, content)
	if err != nil {
		writeError(w, apperror.Wrap(apperror.CodeNotionUnreachable, "failed to upload file", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"fileUploadId": result.FileUploadID,
		"fileName":     result.FileName,
	})
}

// splitDataURI separates a "data:<mime>;base64,<payload>" string into its
// payload and content type, falling back to treating the whole string as
// raw base64 with an empty content type.
func splitDataURI(data string) (payload, contentType string) {
	if !strings.HasPrefix(data, "data:") {
		return data, ""
	}
	rest := strings.TrimPrefix(data, "data:")
	parts := strings.SplitN(rest, ",", 2)
	if len(parts) != 2 {
		return data, ""
	}
	meta := strings.TrimSuffix(parts[0], ";base64")
	return parts[1], meta
}
