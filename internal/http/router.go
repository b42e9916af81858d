package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler the router wrapped with request logging
func (r *Router) Handler() http.Handler {
	return WithRequestLog(r, r.logger)
}

// HealthCheck reports whether one optional dependency is usable
type HealthCheck func() bool

// RegisterHealthRoutes serves /healthz. With no checks it only reports liveness;
// any failing check turns the response into 503 "degraded".
func (r *Router) RegisterHealthRoutes(checks map[string]HealthCheck) {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		if len(checks) == 0 {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}

		status, code := "ok", http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if check() {
				results[name] = "ok"
				continue
			}
			results[name] = "unavailable"
			status, code = "degraded", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]any{"status": status, "checks": results})
	})
}

func (r *Router) RegisterEventRoutes(h *EventHandler) {
	r.Handle("/api/v1/events", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListEvents(w, req)
		case http.MethodPost:
			h.IngestEvent(w, req)
		case http.MethodDelete:
			h.DeleteEvents(w, req)
		default:
			methodNotAllowed(w)
		}
	})
}

func (r *Router) RegisterMetricsRoutes(h *MetricsHandler) {
	r.Handle("/api/v1/metrics", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.GetMetrics(w, req)
	})
	r.Handle("/api/v1/metrics/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.ExportMetrics(w, req)
	})
}

func (r *Router) RegisterIdentityRoutes(h *IdentityHandler) {
	r.Handle("/api/v1/workers", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListWorkers(w, req)
		case http.MethodPost:
			h.RegisterWorker(w, req)
		default:
			methodNotAllowed(w)
		}
	})
	r.Handle("/api/v1/workstations", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListWorkstations(w, req)
		case http.MethodPost:
			h.RegisterWorkstation(w, req)
		default:
			methodNotAllowed(w)
		}
	})
}

func (r *Router) RegisterSeedRoutes(h *SeedHandler) {
	r.Handle("/api/v1/seed", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.Seed(w, req)
		case http.MethodDelete:
			h.Clear(w, req)
		default:
			methodNotAllowed(w)
		}
	})
}
