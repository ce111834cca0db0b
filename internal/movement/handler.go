package movement

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/document"
	"github.com/frahmantamala/records-management/internal/transport"
	"github.com/frahmantamala/records-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// CreateDocument registers a protocol at the caller's unit.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto document.CreateDocumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.CreateDocument(actor, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, doc)
}

// Forward routes a document to the requested destination.
func (h *Handler) Forward(w http.ResponseWriter, r *http.Request) {
	actor, documentID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}

	var dto ForwardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mv, err := h.Service.Forward(actor, documentID, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, mv)
}

// Despatch records an instruction without moving the document.
func (h *Handler) Despatch(w http.ResponseWriter, r *http.Request) {
	actor, documentID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}

	var dto DespatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mv, err := h.Service.Despatch(actor, documentID, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, mv)
}

// Finalize closes a document with a terminal decision.
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	actor, documentID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}

	var dto FinalizeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mv, err := h.Service.Finalize(actor, documentID, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, mv)
}

// History returns the ledger of one document, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	actor, documentID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.Service.History(actor, documentID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

// ConfirmReceipt acknowledges arrival of a forwarded document.
func (h *Handler) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	actor, movementID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}

	mv, err := h.Service.ConfirmReceipt(actor, movementID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, mv)
}

// Pending lists unacknowledged arrivals for the caller's unit.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.Service.PendingFor(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

// GetMovement returns one ledger entry.
func (h *Handler) GetMovement(w http.ResponseWriter, r *http.Request) {
	actor, movementID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}

	mv, err := h.Service.GetMovement(actor, movementID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, mv)
}

func (h *Handler) actorAndID(w http.ResponseWriter, r *http.Request, param string) (*auth.Actor, int64, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid ID")
		return nil, 0, false
	}
	return actor, id, true
}
