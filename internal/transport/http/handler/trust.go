package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-auth-trust/internal/application/trust"
	"github.com/go-auth-trust/internal/domain"
	"github.com/go-auth-trust/internal/transport/http/middleware"
)

// TrustHandler exposes the trust-level transitions: phone verification,
// subscription, password change and phone update.
type TrustHandler struct {
	svc     trust.Service
	cookies CookieConfig

	// reissue controls the post-verification session policy: true keeps the
	// user logged in with a fresh token, false forces a new login.
	reissue bool
}

func NewTrustHandler(svc trust.Service, cookies CookieConfig, reissue bool) *TrustHandler {
	return &TrustHandler{svc: svc, cookies: cookies, reissue: reissue}
}

func (h *TrustHandler) StartVerification(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFromContext(w, r)
	if !ok {
		return
	}
	if err := h.svc.StartPhoneVerification(r.Context(), sub); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "Verification sent"})
}

func (h *TrustHandler) CheckVerification(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFromContext(w, r)
	if !ok {
		return
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.svc.CheckPhoneVerification(r.Context(), sub, body.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	if h.reissue {
		setSessionCookie(w, h.cookies, token)
	} else {
		clearSessionCookie(w, h.cookies)
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Phone verified"})
}

func (h *TrustHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFromContext(w, r)
	if !ok {
		return
	}
	token, err := h.svc.Subscribe(r.Context(), sub)
	if err != nil {
		httpError(w, err)
		return
	}
	setSessionCookie(w, h.cookies, token)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Subscribed"})
}

func (h *TrustHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFromContext(w, r)
	if !ok {
		return
	}
	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.ChangePassword(r.Context(), sub, req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password changed"})
}

func (h *TrustHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFromContext(w, r)
	if !ok {
		return
	}
	var req domain.UpdatePhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.UpdatePhone(r.Context(), sub, req.Phone); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Phone updated"})
}

// subjectFromContext converts the verified token claims into the operation
// subject. A missing or unparseable claim set answers 401 directly.
func subjectFromContext(w http.ResponseWriter, r *http.Request) (trust.Subject, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return trust.Subject{}, false
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return trust.Subject{}, false
	}
	return trust.Subject{
		Email:     claims.Email,
		AccountID: claims.AccountID,
		Role:      role,
	}, true
}
