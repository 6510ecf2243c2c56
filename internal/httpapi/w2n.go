package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/amberpixels/sn2n/internal/apperror"
	"github.com/amberpixels/sn2n/internal/convert"
)

// w2nRequest is the shared create/update payload shape.
type w2nRequest struct {
	Title          string               `json:"title"`
	Content        string               `json:"content"`
	ContentHTML    string               `json:"contentHtml"`
	DatabaseID     string               `json:"databaseId"`
	URL            string               `json:"url"`
	Properties     notionapi.Properties `json:"properties"`
	Icon           *notionapi.Icon      `json:"icon"`
	Cover          *notionapi.Cover     `json:"cover"`
	DryRun         bool                 `json:"dryRun"`
	ValidationOn   bool                 `json:"validate"`
	StrictDOMOrder bool                 `json:"strictDomOrder"`
}

func (req *w2nRequest) html() string {
	if req.ContentHTML != "" {
		return req.ContentHTML
	}
	return req.Content
}

func ensureTitleProperty(props notionapi.Properties, title string) notionapi.Properties {
	if props == nil {
		props = notionapi.Properties{}
	}
	for _, prop := range props {
		if _, ok := prop.(notionapi.TitleProperty); ok {
			return props
		}
	}
	props["Name"] = notionapi.TitleProperty{
		Title: []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: title}}},
	}
	return props
}

func ensureURLProperty(props notionapi.Properties, sourceURL string) notionapi.Properties {
	if sourceURL == "" {
		return props
	}
	if _, exists := props["URL"]; exists {
		return props
	}
	props["URL"] = notionapi.URLProperty{URL: sourceURL}
	return props
}

// handleW2NCreate implements POST /api/W2N.
func handleW2NCreate(h *Handler, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	var req w2nRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidInput, "malformed JSON body", err), http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "title is required"), http.StatusBadRequest)
		return
	}
	if req.html() == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "content or contentHtml is required"), http.StatusBadRequest)
		return
	}
	if req.DatabaseID == "" && !req.DryRun {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "databaseId is required unless dryRun is set"), http.StatusBadRequest)
		return
	}

	props := ensureURLProperty(ensureTitleProperty(req.Properties, req.Title), req.URL)

	result, err := convert.Run(r.Context(), h.convertDeps(), convert.Request{
		DatabaseID:     req.DatabaseID,
		ContentHTML:    req.html(),
		Properties:     props,
		Icon:           req.Icon,
		Cover:          req.Cover,
		SourceOrigin:   h.Config.ServiceNowOrigin,
		StrictDOMOrder: req.StrictDOMOrder || h.Config.StrictDOMOrder,
		DryRun:         req.DryRun,
		ValidationOn:   req.ValidationOn,
	})
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	if req.DryRun {
		writeJSON(w, map[string]interface{}{
			"dryRun":    true,
			"children":  result.Blocks,
			"hasVideos": result.HasVideos,
		})
		return
	}

	data := map[string]interface{}{
		"pageUrl": result.URL,
		"page": map[string]interface{}{
			"id":    result.PageID,
			"url":   result.URL,
			"title": req.Title,
		},
	}
	if result.Validation != nil {
		data["validationResult"] = result.Validation
	}
	if len(result.Warnings) > 0 {
		data["warnings"] = result.Warnings
	}
	writeJSON(w, data)
}

// handleW2NUpdate implements PATCH /api/W2N/:pageId.
func handleW2NUpdate(h *Handler, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	pageID := strings.TrimPrefix(r.URL.Path, "/api/W2N/")
	if pageID == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "pageId is required"), http.StatusBadRequest)
		return
	}

	var req w2nRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidInput, "malformed JSON body", err), http.StatusBadRequest)
		return
	}
	if req.html() == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "content or contentHtml is required"), http.StatusBadRequest)
		return
	}

	props := ensureURLProperty(ensureTitleProperty(req.Properties, req.Title), req.URL)

	result, err := convert.RunUpdate(r.Context(), h.convertDeps(), convert.Request{
		ContentHTML:    req.html(),
		Properties:     props,
		Icon:           req.Icon,
		Cover:          req.Cover,
		SourceOrigin:   h.Config.ServiceNowOrigin,
		StrictDOMOrder: req.StrictDOMOrder || h.Config.StrictDOMOrder,
		ValidationOn:   req.ValidationOn,
	}, pageID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"pageUrl": result.URL,
		"page": map[string]interface{}{
			"id":  result.PageID,
			"url": result.URL,
		},
	}
	if result.Validation != nil {
		data["validationResult"] = result.Validation
	}
	if len(result.Warnings) > 0 {
		data["warnings"] = result.Warnings
	}
	writeJSON(w, data)
}
