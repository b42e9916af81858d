package httpapi

import (
	"net/http"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/service"

	"go.uber.org/zap"
)

// SeedHandler /api/v1/seed
type SeedHandler struct {
	seed   *service.SeedService
	events *service.EventService
	logger *zap.Logger
}

func NewSeedHandler(seed *service.SeedService, events *service.EventService, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{seed: seed, events: events, logger: logger}
}

func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	res, err := h.seed.Seed(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to seed data")
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

func (h *SeedHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if _, err := h.events.Clear(r.Context()); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete events")
		return
	}
	writeJSON(w, http.StatusOK, Ok(service.SeedResult{Success: true, Message: "All events deleted"}))
}
