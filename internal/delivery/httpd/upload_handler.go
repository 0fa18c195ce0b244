package httpd

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/docudetect/docu-detect/internal/service"
	"github.com/docudetect/docu-detect/internal/service/extractor"
)

func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !stringContains(contentType, "multipart/form-data") {
		writeError(w, http.StatusBadRequest, "Content-Type must be multipart/form-data")
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part in the request")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read uploaded file")
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	user := userFrom(r)

	ctx := r.Context()
	record, err := h.pipeline.Run(ctx, service.Upload{
		Filename: fileHeader.Filename,
		Content:  content,
	}, user.Username, user.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFile):
			writeError(w, http.StatusBadRequest, "No file selected")
		case errors.Is(err, extractor.ErrExtraction):
			writeError(w, http.StatusUnprocessableEntity, "Could not extract text from the PDF")
		default:
			h.logger.Error().Err(err).Msg("Analysis failed")
			writeError(w, http.StatusInternalServerError, "Failed to analyze document")
		}
		return
	}

	writeSuccess(w, record)
}
