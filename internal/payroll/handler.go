package payroll

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/timeclock/internal/auth"
	"github.com/frahmantamala/timeclock/internal/transport"
)

type ServiceAPI interface {
	ComputeRun(dto ComputeRunDTO) (*RunWithItems, error)
	FinalizeRun(runID int64) (*Run, error)
	GetRun(runID int64) (*RunWithItems, error)
	ListRuns(companyID int64, limit, offset int) ([]*Run, error)
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

func (h *Handler) ComputeRun(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	var dto ComputeRunDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ComputeRun: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.ComputeRun(dto)
	if err != nil {
		h.Logger.Error("ComputeRun: service error", "error", err, "company_id", dto.CompanyID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("ComputeRun: run created",
		"run_id", result.Run.ID,
		"company_id", dto.CompanyID,
		"line_items", len(result.Items))
	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) FinalizeRun(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	runID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	run, svcErr := h.Service.FinalizeRun(runID)
	if svcErr != nil {
		h.Logger.Error("FinalizeRun: service error", "error", svcErr, "run_id", runID)
		h.HandleServiceError(w, svcErr)
		return
	}

	h.Logger.Info("FinalizeRun: run finalized", "run_id", runID, "actor_id", actor.EmployeeID)
	h.WriteJSON(w, http.StatusOK, run)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	runID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	result, svcErr := h.Service.GetRun(runID)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || !actor.IsAdmin {
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid company_id")
		return
	}
	limit, offset := transport.Pagination(r, 20, 100)

	runs, svcErr := h.Service.ListRuns(companyID, limit, offset)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}
