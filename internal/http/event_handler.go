package httpapi

import (
	"net/http"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/service"

	"go.uber.org/zap"
)

// EventHandler /api/v1/events
type EventHandler struct {
	svc    *service.EventService
	logger *zap.Logger
}

func NewEventHandler(svc *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, logger: logger}
}

// IngestEvent POST: 201 with the committed row
func (h *EventHandler) IngestEvent(w http.ResponseWriter, r *http.Request) {
	var req service.IngestRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}

	e, err := h.svc.Ingest(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to ingest event")
		return
	}
	writeJSON(w, http.StatusCreated, Ok(e))
}

// ListEvents GET ?worker_id=&workstation_id=&event_type=&limit=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.svc.List(r.Context(), service.ListEventsRequest{
		WorkerID:      q.Get("worker_id"),
		WorkstationID: q.Get("workstation_id"),
		EventType:     q.Get("event_type"),
		Limit:         parseInt(q.Get("limit"), 0),
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch events")
		return
	}
	writeJSON(w, http.StatusOK, Ok(records))
}

// DeleteEvents DELETE: bulk clear
func (h *EventHandler) DeleteEvents(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Clear(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete events")
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": n}))
}
