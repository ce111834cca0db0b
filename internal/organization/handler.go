package organization

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/records-management/internal/transport"
	"github.com/frahmantamala/records-management/pkg/logger"
)

type ServiceAPI interface {
	ListAdministrations() ([]*Administration, error)
	GetAdministration(id int64) (*Administration, error)
	CreateDepartment(dto CreateDepartmentDTO) (*Department, error)
	CreateSection(dto CreateSectionDTO) (*Section, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListAdministrations returns the tenant catalog.
func (h *Handler) ListAdministrations(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Service.ListAdministrations()
	if err != nil {
		h.Logger.Error("ListAdministrations: failed to list administrations", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, admins)
}

// CreateDepartment registers a department, either bound to a tenant or as a
// generic template when no administration is given.
func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto CreateDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept, err := h.Service.CreateDepartment(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, dept)
}

// CreateSection registers a section under an existing department.
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var dto CreateSectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	section, err := h.Service.CreateSection(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, section)
}
