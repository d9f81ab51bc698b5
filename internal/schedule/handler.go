package schedule

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
	CreateShift(dto CreateShiftDTO) (*Shift, error)
	UpdateShift(shiftID int64, dto UpdateShiftDTO) (*Shift, error)
	ValidateShift(dto ValidateShiftDTO) ([]Conflict, error)
	GetShift(shiftID int64) (*Shift, error)
	ListShifts(employeeID int64, from, to time.Time) ([]*Shift, error)
	PublishShift(shiftID int64) (*Shift, error)
	ApproveShift(shiftID int64) (*Shift, error)
	CancelShift(shiftID int64) (*Shift, error)
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

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	var dto CreateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateShift: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shift, err := h.Service.CreateShift(dto)
	if err != nil {
		h.Logger.Error("CreateShift: service error", "error", err, "employee_id", dto.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateShift: shift created", "shift_id", shift.ID, "employee_id", shift.EmployeeID)
	h.WriteJSON(w, http.StatusCreated, shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	shiftID, err := h.shiftIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shift ID")
		return
	}

	var dto UpdateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateShift: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shift, svcErr := h.Service.UpdateShift(shiftID, dto)
	if svcErr != nil {
		h.Logger.Error("UpdateShift: service error", "error", svcErr, "shift_id", shiftID)
		h.HandleServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, shift)
}

// ValidateShift is the dry-run endpoint: it returns the conflicts the shift
// would cause without persisting anything.
func (h *Handler) ValidateShift(w http.ResponseWriter, r *http.Request) {
	var dto ValidateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ValidateShift: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conflicts, err := h.Service.ValidateShift(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if conflicts == nil {
		conflicts = []Conflict{}
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":     len(conflicts) == 0,
		"conflicts": conflicts,
	})
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := h.shiftIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shift ID")
		return
	}

	shift, svcErr := h.Service.GetShift(shiftID)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, shift)
}

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
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

	from, to, err := transport.TimeRange(r, 14*24*time.Hour)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	shifts, svcErr := h.Service.ListShifts(employeeID, from, to)
	if svcErr != nil {
		h.Logger.Error("ListShifts: service error", "error", svcErr, "employee_id", employeeID)
		h.HandleServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"shifts": shifts})
}

func (h *Handler) PublishShift(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.PublishShift)
}

func (h *Handler) ApproveShift(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.ApproveShift)
}

func (h *Handler) CancelShift(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.CancelShift)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(int64) (*Shift, error)) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	shiftID, err := h.shiftIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shift ID")
		return
	}

	shift, svcErr := fn(shiftID)
	if svcErr != nil {
		h.Logger.Error("shift transition failed", "error", svcErr, "shift_id", shiftID)
		h.HandleServiceError(w, svcErr)
		return
	}

	h.Logger.Info("shift transitioned", "shift_id", shiftID, "status", shift.Status)
	h.WriteJSON(w, http.StatusOK, shift)
}

func (h *Handler) shiftIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
