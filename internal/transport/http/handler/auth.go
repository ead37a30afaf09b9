package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fileshare-api/internal/application/identity"
	"github.com/fileshare-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// AuthHandler handles signup, email verification and login.
type AuthHandler struct {
	svc identity.Service
}

func NewAuthHandler(svc identity.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SignupEnvelope{
		Message:         "User registered successfully. Please check your email for verification.",
		VerificationURL: h.svc.VerificationURL(*u.VerificationToken),
	})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.VerifyEmail(r.Context(), chi.URLParam(r, "token")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Email verified successfully. You can now login."})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{
		Message:     "Login successful",
		AccessToken: result.AccessToken,
		UserRole:    result.Role,
	})
}
