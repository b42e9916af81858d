package httpapi

import (
	"net/http"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/service"

	"go.uber.org/zap"
)

// IdentityHandler /api/v1/workers and /api/v1/workstations
type IdentityHandler struct {
	svc    *service.IdentityService
	logger *zap.Logger
}

func NewIdentityHandler(svc *service.IdentityService, logger *zap.Logger) *IdentityHandler {
	return &IdentityHandler{svc: svc, logger: logger}
}

func (h *IdentityHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.svc.ListWorkers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch workers")
		return
	}
	writeJSON(w, http.StatusOK, Ok(workers))
}

func (h *IdentityHandler) ListWorkstations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.svc.ListWorkstations(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch workstations")
		return
	}
	writeJSON(w, http.StatusOK, Ok(stations))
}

func (h *IdentityHandler) RegisterWorker(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterWorkerRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}
	worker, err := h.svc.RegisterWorker(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to register worker")
		return
	}
	writeJSON(w, http.StatusCreated, Ok(worker))
}

func (h *IdentityHandler) RegisterWorkstation(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterWorkstationRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}
	station, err := h.svc.RegisterWorkstation(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to register workstation")
		return
	}
	writeJSON(w, http.StatusCreated, Ok(station))
}
