package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/amberpixels/sn2n/internal/apperror"
	"github.com/amberpixels/sn2n/internal/validate"
)

type validateRequest struct {
	PageID     string `json:"pageId"`
	SourceHTML string `json:"sourceHtml"`
	RunID      string `json:"runId"`
}

func (h *Handler) policyAndMethod() (validate.Method, validate.Policy) {
	return validate.Method(h.Config.ValidationMethod), validate.Policy{
		CoverageThreshold: h.Config.ValidationCoverageThreshold,
		MissingThreshold:  h.Config.ValidationMissingThreshold,
	}
}

// handleValidate implements POST /api/validate: checks an already-created
// page against its source without writing anything back.
func handleValidate(h *Handler, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidInput, "malformed JSON body", err), http.StatusBadRequest)
		return
	}
	if req.PageID == "" || req.SourceHTML == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "pageId and sourceHtml are required"), http.StatusBadRequest)
		return
	}

	record, err := runComparator(h, r, req)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, record)
}

// handleCompare implements POST /api/compare/:pageId: runs the comparator
// and writes the resulting coverage/status properties back onto the page.
func handleCompare(h *Handler, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	pageID := strings.TrimPrefix(r.URL.Path, "/api/compare/")
	if pageID == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "pageId is required"), http.StatusBadRequest)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidInput, "malformed JSON body", err), http.StatusBadRequest)
		return
	}
	if req.SourceHTML == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "sourceHtml is required"), http.StatusBadRequest)
		return
	}
	req.PageID = pageID

	record, err := runComparator(h, r, req)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	if err := validate.WriteProperties(r.Context(), h.Client, pageID, record); err != nil {
		writeError(w, apperror.Wrap(apperror.CodeValidationFailed, "comparator ran but failed to write properties", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, record)
}

func runComparator(h *Handler, r *http.Request, req validateRequest) (*validate.Record, error) {
	pageBlocks, err := h.Client.GetAllBlocks(r.Context(), req.PageID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeNotFound, "page not found", err)
	}

	method, policy := h.policyAndMethod()
	runID := req.RunID
	if runID == "" {
		runID = req.PageID
	}

	record, err := validate.Compare(req.SourceHTML, pageBlocks, method, policy, runID, time.Now())
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeValidationFailed, "comparator failed", err)
	}
	return record, nil
}
