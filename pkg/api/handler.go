package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/defaults"
	"github.com/stackconf/stackconf/pkg/descriptor"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/engine"
	"github.com/stackconf/stackconf/pkg/errors"
	"github.com/stackconf/stackconf/pkg/serializer"
	"github.com/stackconf/stackconf/pkg/server"
)

// Handler resolves inventories posted to the API. It never touches the
// host filesystem; rendering stays a CLI concern.
type Handler struct {
	cfg      *config.Config
	registry *driver.Registry
}

// NewHandler creates a Handler.
func NewHandler(cfg *config.Config, registry *driver.Registry) *Handler {
	return &Handler{cfg: cfg, registry: registry}
}

// HandleResolve handles POST /v1/resolve. The body is an inventory; repeated
// ?app= parameters limit resolution to those shortnames. A plan with failed
// applications is still a 200: failures are part of the plan.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	inv, err := serializer.DecodeJSON[descriptor.Inventory](r)
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"invalid inventory", false, map[string]any{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.ResolveHandlerTimeout)
	defer cancel()

	apps := r.URL.Query()["app"]
	plan, err := engine.New(h.cfg, h.registry, engine.WithApplications(apps...)).Resolve(ctx, inv)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "resolution failed", nil)
		return
	}

	if failed := plan.Failed(); len(failed) > 0 {
		slog.Warn("plan has failed applications",
			"request_id", server.RequestID(r.Context()),
			"failed", len(failed))
	}
	serializer.RespondJSON(w, http.StatusOK, plan)
}

// HandleDrivers handles GET /v1/drivers.
func (h *Handler) HandleDrivers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"method not allowed", false, map[string]any{"method": r.Method})
		return
	}
	serializer.RespondJSON(w, http.StatusOK, h.registry.Describe())
}
