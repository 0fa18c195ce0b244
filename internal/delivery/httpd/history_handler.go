package httpd

import (
	"net/http"

	"github.com/docudetect/docu-detect/internal/models"
)

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	ctx := r.Context()
	records, err := h.history.List(ctx, user.Email)
	if err != nil {
		h.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to load history")
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	if records == nil {
		records = []*models.AnalysisRecord{}
	}

	writeSuccess(w, records)
}
