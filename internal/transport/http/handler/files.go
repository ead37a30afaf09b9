package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/fileshare-api/internal/application/registry"
	"github.com/fileshare-api/internal/application/transfer"
	"github.com/fileshare-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// FileHandler handles upload, listing and tokenized download endpoints.
type FileHandler struct {
	transfer      transfer.Service
	registry      registry.Service
	baseURL       string
	maxUploadSize int64
}

func NewFileHandler(transferSvc transfer.Service, registrySvc registry.Service, baseURL string, maxUploadSize int64) *FileHandler {
	return &FileHandler{
		transfer:      transferSvc,
		registry:      registrySvc,
		baseURL:       baseURL,
		maxUploadSize: maxUploadSize,
	}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	// Cap the request body; oversized uploads fail during multipart parsing.
	// Parts beyond the in-memory threshold spill to temp files, so large
	// uploads are never held wholly in memory.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file part in the request")
		return
	}
	defer f.Close()

	uploaded, err := h.transfer.Upload(r.Context(), transfer.UploadInput{
		OwnerID:    claims.UserID,
		OwnerEmail: claims.Email,
		Role:       claims.Role,
		Filename:   header.Filename,
		Size:       header.Size,
		Reader:     f,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UploadEnvelope{
		Message:  "File uploaded successfully",
		FileID:   uploaded.FileID,
		Filename: uploaded.OriginalName,
	})
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	files, err := h.registry.List(r.Context(), claims.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FileListEnvelope{
		Message: "Files retrieved successfully",
		Files:   files,
	})
}

// DownloadLink returns the tokenized link for a file. The same file always
// yields the same link; tokens are not rotated per request.
func (h *FileHandler) DownloadLink(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	token, err := h.registry.IssueDownloadLink(r.Context(), claims.Role, chi.URLParam(r, "fileId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DownloadLinkEnvelope{
		Message:      "success",
		DownloadLink: h.baseURL + "/file/download-file/" + token,
	})
}

// DownloadFile streams the bytes behind a download token under the file's
// original display name.
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rc, f, err := h.transfer.Download(r.Context(), claims.Role, chi.URLParam(r, "token"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", transfer.ContentTypeFor(f.FileType))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.OriginalName))
	_, _ = io.Copy(w, rc)
}
