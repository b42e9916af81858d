package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// writeServiceError 400 for validation failures, generic 500 otherwise.
// genericMsg is what the client sees for non-validation errors.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, genericMsg string) {
	if ve, ok := service.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, FailRule(ve.Message, ve.Rule))
		return
	}
	logger.Error(genericMsg, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail(genericMsg))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, Fail("method not allowed"))
}
