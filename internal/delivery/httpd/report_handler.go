package httpd

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/service/mailer"
	"github.com/docudetect/docu-detect/internal/service/report"
	"github.com/docudetect/docu-detect/internal/storage"
)

func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "report_id")
	if reportID == "" {
		writeError(w, http.StatusBadRequest, "Report ID is required")
		return
	}

	ctx := r.Context()
	content, err := h.store.Read(ctx, report.ArtifactKey(reportID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Error().Err(err).Str("report_id", reportID).Msg("Failed to read report artifact")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+reportID+".pdf\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (h *Handler) SendReportEmail(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "report_id")
	if reportID == "" {
		writeError(w, http.StatusBadRequest, "Report ID is required")
		return
	}

	user := userFrom(r)

	ctx := r.Context()
	err := h.dispatcher.Dispatch(ctx, models.EmailTask{
		ReportID:  reportID,
		Recipient: user.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, mailer.ErrReportNotFound):
			writeError(w, http.StatusNotFound, "Report not found")
		case errors.Is(err, mailer.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "Email is not configured on this server")
		default:
			h.logger.Error().Err(err).Str("report_id", reportID).Msg("Failed to send report email")
			writeError(w, http.StatusInternalServerError, "Email failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Report sent to " + user.Email,
	})
}
