package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fileshare-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SignupEnvelope wraps the signup response; the verification URL mirrors the
// link mailed to the user.
type SignupEnvelope struct {
	Message         string `json:"message"`
	VerificationURL string `json:"verification_url"`
}

// LoginEnvelope wraps the login response.
type LoginEnvelope struct {
	Message     string      `json:"message"`
	AccessToken string      `json:"access_token"`
	UserRole    domain.Role `json:"user_role"`
}

// UploadEnvelope wraps the upload response.
type UploadEnvelope struct {
	Message  string `json:"message"`
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}

// FileListEnvelope wraps the listing response.
type FileListEnvelope struct {
	Message string               `json:"message"`
	Files   []domain.FileSummary `json:"files"`
}

// DownloadLinkEnvelope wraps the tokenized download link.
type DownloadLinkEnvelope struct {
	Message      string `json:"message"`
	DownloadLink string `json:"download_link"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps a sentinel-wrapped service error to its HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
