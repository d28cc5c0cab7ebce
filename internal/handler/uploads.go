package handler

import (
	"net/http"

	"github.com/opsgate/opsgate/internal/logger"
	"github.com/opsgate/opsgate/internal/utils"
)

// Upload accepts one multipart file and stores it in object storage.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.cfg.Public.MaxUploadSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, "File too large or malformed form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	upload, err := h.uploader.Upload(r.Context(), file, header.Size, contentType, header.Filename)
	if err != nil {
		logger.Log.Error("upload failed", "filename", header.Filename, "error", err)
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, upload)
}
