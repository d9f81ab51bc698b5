package timeentry

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/timeclock/internal/auth"
	"github.com/frahmantamala/timeclock/internal/transport"
)

type ServiceAPI interface {
	ClockIn(employeeID int64, dto ClockInDTO) (*TimeEntry, error)
	ClockOut(employeeID int64, dto ClockOutDTO) (*TimeEntry, error)
	ManualEdit(entryID, actorID int64, dto ManualEditDTO) (*TimeEntry, error)
	KioskPunch(dto KioskPunchDTO) (*TimeEntry, string, error)
	GetEntry(entryID int64) (*TimeEntry, error)
	ListEntries(employeeID int64, from, to time.Time, limit, offset int) ([]*TimeEntry, error)
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

func (h *Handler) PunchIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ClockInDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("PunchIn: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.ClockIn(actor.EmployeeID, dto)
	if err != nil {
		h.Logger.Error("PunchIn: service error", "error", err, "employee_id", actor.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("PunchIn: entry opened", "entry_id", entry.ID, "employee_id", actor.EmployeeID)
	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) PunchOut(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ClockOutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("PunchOut: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.ClockOut(actor.EmployeeID, dto)
	if err != nil {
		h.Logger.Error("PunchOut: service error", "error", err, "employee_id", actor.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("PunchOut: entry closed",
		"entry_id", entry.ID,
		"employee_id", actor.EmployeeID,
		"rounded_hours", entry.RoundedHours.Decimal.String())
	h.WriteJSON(w, http.StatusOK, entry)
}

// KioskPunch is unauthenticated at the transport level: the PIN in the body
// is the credential.
func (h *Handler) KioskPunch(w http.ResponseWriter, r *http.Request) {
	var dto KioskPunchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("KioskPunch: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, action, err := h.Service.KioskPunch(dto)
	if err != nil {
		h.Logger.Error("KioskPunch: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if action == ActionClockIn {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, map[string]interface{}{
		"action": action,
		"entry":  entry,
	})
}

func (h *Handler) EditEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid entry ID")
		return
	}

	var dto ManualEditDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("EditEntry: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, svcErr := h.Service.ManualEdit(entryID, actor.EmployeeID, dto)
	if svcErr != nil {
		h.Logger.Error("EditEntry: service error", "error", svcErr, "entry_id", entryID)
		h.HandleServiceError(w, svcErr)
		return
	}

	h.Logger.Info("EditEntry: entry corrected",
		"entry_id", entryID,
		"actor_id", actor.EmployeeID,
		"reason", dto.Reason)
	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid entry ID")
		return
	}

	entry, svcErr := h.Service.GetEntry(entryID)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	if entry.EmployeeID != actor.EmployeeID && !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "access denied")
		return
	}
	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID := actor.EmployeeID
	if idStr := r.URL.Query().Get("employee_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid employee_id")
			return
		}
		if id != actor.EmployeeID && !actor.IsAdmin {
			h.WriteError(w, http.StatusForbidden, "access denied")
			return
		}
		employeeID = id
	}

	from, to, err := transport.TimeRange(r, 30*24*time.Hour)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, offset := transport.Pagination(r, 50, 200)

	entries, svcErr := h.Service.ListEntries(employeeID, from, to, limit, offset)
	if svcErr != nil {
		h.Logger.Error("ListEntries: service error", "error", svcErr, "employee_id", employeeID)
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}
