package httpapi

import (
	"net/http"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/amberpixels/sn2n/internal/apperror"
)

// propertySchema is the client-facing shape of one database property:
// just enough to drive a property-mapping UI.
type propertySchema struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// handleGetDatabase implements GET /api/databases/:id.
func handleGetDatabase(h *Handler, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	databaseID := strings.TrimPrefix(r.URL.Path, "/api/databases/")
	if databaseID == "" {
		writeError(w, apperror.New(apperror.CodeInvalidInput, "database id is required"), http.StatusBadRequest)
		return
	}

	db, err := h.Client.GetDatabase(r.Context(), databaseID)
	if err != nil {
		writeError(w, apperror.Wrap(apperror.CodeDatabaseNotAccessible, "could not reach database", err), http.StatusNotFound)
		return
	}

	schema := make([]propertySchema, 0, len(db.Properties))
	for name, config := range db.Properties {
		schema = append(schema, propertySchema{
			Name:    name,
			Type:    string(config.GetType()),
			Options: propertyOptions(config),
		})
	}

	writeJSON(w, map[string]interface{}{"properties": schema})
}

func propertyOptions(config notionapi.PropertyConfig) []string {
	switch c := config.(type) {
	case *notionapi.SelectPropertyConfig:
		return optionNames(c.Select.Options)
	case *notionapi.MultiSelectPropertyConfig:
		return optionNames(c.MultiSelect.Options)
	case *notionapi.StatusPropertyConfig:
		return optionNames(c.Status.Options)
	default:
		return nil
	}
}

func optionNames(options []notionapi.Option) []string {
	if len(options) == 0 {
		return nil
	}
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
	}
	return names
}
