package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/service"

	"go.uber.org/zap"
)

// MetricsHandler /api/v1/metrics
type MetricsHandler struct {
	svc    *service.MetricsService
	logger *zap.Logger
}

func NewMetricsHandler(svc *service.MetricsService, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{svc: svc, logger: logger}
}

func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch metrics")
		return
	}
	writeJSON(w, http.StatusOK, Ok(report))
}

// ExportMetrics same report as GetMetrics, as an XLSX download
func (h *MetricsHandler) ExportMetrics(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to export metrics")
		return
	}

	filename := fmt.Sprintf("workfloor-metrics-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
