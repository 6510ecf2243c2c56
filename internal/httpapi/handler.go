package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/amberpixels/sn2n/internal/config"
	"github.com/amberpixels/sn2n/internal/convert"
	"github.com/amberpixels/sn2n/internal/notion"
	"github.com/amberpixels/sn2n/internal/validate"
)

// Version is the server version reported by the health endpoints, set at
// build time by cmd/sn2nd.
var Version = "dev"

// Handler bundles the collaborators every endpoint needs. One Handler is
// constructed at startup and shared, read-only, across all requests.
type Handler struct {
	Client *notion.Client
	Config *config.Config
	Logger *slog.Logger
}

// NewHandler constructs a Handler from its collaborators, defaulting a nil
// logger to slog.Default().
func NewHandler(client *notion.Client, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Client: client, Config: cfg, Logger: logger}
}

// NewMux builds the full route table for the server.
func NewMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	registerRoutes(mux, h)
	return mux
}

func (h *Handler) convertDeps() convert.Deps {
	return convert.Deps{
		Client:           h.Client,
		Logger:           h.Logger,
		ValidationMethod: validate.Method(h.Config.ValidationMethod),
		ValidationPolicy: validate.Policy{
			CoverageThreshold: h.Config.ValidationCoverageThreshold,
			MissingThreshold:  h.Config.ValidationMissingThreshold,
		},
	}
}
