package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bomalink/bomalink/internal/storage"
	"github.com/bomalink/bomalink/internal/utils"
)

const maxUploadSize = 10 << 20 // 10 MiB

type UploadHandler struct {
	Files storage.FileStore
}

func NewUploadHandler(files storage.FileStore) *UploadHandler {
	return &UploadHandler{Files: files}
}

// Upload stores a single multipart file under a generated name and returns
// its public URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if utils.Caller(r.Context()).Anonymous() {
		utils.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	name := uuid.NewString() + filepath.Ext(header.Filename)

	url, err := h.Files.Save(r.Context(), name, header.Header.Get("Content-Type"), file)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "error uploading file")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"url": url})
}
