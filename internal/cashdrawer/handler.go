package cashdrawer

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/timeclock/internal/auth"
	"github.com/frahmantamala/timeclock/internal/transport"
)

type ServiceAPI interface {
	Review(sessionID, reviewerID int64, dto ReviewSessionDTO) (*Session, error)
	AdminEdit(sessionID, actorID int64, dto AdminEditSessionDTO) (*Session, error)
	GetSession(sessionID int64) (*Session, error)
	ListNeedingReview(limit, offset int) ([]*Session, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.sessionIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	session, svcErr := h.Service.GetSession(sessionID)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) ListNeedingReview(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 20, 100)

	sessions, err := h.Service.ListNeedingReview(limit, offset)
	if err != nil {
		h.Logger.Error("ListNeedingReview: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) ReviewSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	sessionID, err := h.sessionIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	var dto ReviewSessionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ReviewSession: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, svcErr := h.Service.Review(sessionID, actor.EmployeeID, dto)
	if svcErr != nil {
		h.Logger.Error("ReviewSession: service error", "error", svcErr, "session_id", sessionID)
		h.HandleServiceError(w, svcErr)
		return
	}

	h.Logger.Info("ReviewSession: session reviewed",
		"session_id", sessionID,
		"reviewer_id", actor.EmployeeID)

	h.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) EditSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	sessionID, err := h.sessionIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	var dto AdminEditSessionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("EditSession: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, svcErr := h.Service.AdminEdit(sessionID, actor.EmployeeID, dto)
	if svcErr != nil {
		h.Logger.Error("EditSession: service error", "error", svcErr, "session_id", sessionID)
		h.HandleServiceError(w, svcErr)
		return
	}

	h.Logger.Info("EditSession: session amounts corrected",
		"session_id", sessionID,
		"actor_id", actor.EmployeeID,
		"status", session.Status)

	h.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) sessionIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
