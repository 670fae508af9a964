package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-auth-trust/internal/application/session"
	"github.com/go-auth-trust/internal/domain"
)

// SessionHandler handles login, logout and registration.
type SessionHandler struct {
	svc     session.Service
	cookies CookieConfig
}

func NewSessionHandler(svc session.Service, cookies CookieConfig) *SessionHandler {
	return &SessionHandler{svc: svc, cookies: cookies}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, profile, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	setSessionCookie(w, h.cookies, token)
	writeJSON(w, http.StatusOK, ProfileEnvelope{Profile: profile})
}

// Logout always succeeds: the token is stateless, so clearing the cookie is
// the whole operation.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.cookies)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Logged out"})
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	profile, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ProfileEnvelope{Profile: profile, Message: "Account created"})
}
