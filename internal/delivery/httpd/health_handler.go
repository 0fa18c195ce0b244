package httpd

import (
	"net/http"
	"time"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "docu-detect",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}

	writeJSON(w, http.StatusOK, response)
}
