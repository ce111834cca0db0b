package routing

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/organization"
	"github.com/frahmantamala/records-management/internal/transport"
	"github.com/frahmantamala/records-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Resolver:    resolver,
	}
}

// GetDestinations returns the destination picker contents for the caller.
// `include_self=true` keeps the actor's own unit in the list, which the UI
// uses to render it as pre-selected.
func (h *Handler) GetDestinations(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	includeSelf := r.URL.Query().Get("include_self") == "true"

	dests, err := h.Resolver.Resolve(actor, ResolveOptions{IncludeSelf: includeSelf})
	if err != nil {
		h.Logger.Error("GetDestinations: resolve failed", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dests)
}

// GetDepartmentSections returns the sections of one permitted destination
// department, for dynamic picker population.
func (h *Handler) GetDepartmentSections(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	deptIDStr := chi.URLParam(r, "id")
	deptID, err := strconv.ParseInt(deptIDStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	sections, err := h.Resolver.SectionsForDepartment(actor, deptID)
	if err != nil {
		h.Logger.Error("GetDepartmentSections: lookup failed", "error", err, "department_id", deptID)
		h.HandleServiceError(w, err)
		return
	}

	options := make([]organization.SectionOption, 0, len(sections))
	for _, s := range sections {
		options = append(options, organization.SectionOption{ID: s.ID, Name: s.Name})
	}

	h.WriteJSON(w, http.StatusOK, options)
}
