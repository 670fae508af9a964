package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func healthRequest(action string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/health/"+action, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("action", action)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPing_Pong(t *testing.T) {
	h := NewHealthHandler()

	rec := httptest.NewRecorder()
	h.Ping(rec, healthRequest("ping"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", decodeBody(t, rec)["message"])
}

func TestPing_UnknownAction(t *testing.T) {
	h := NewHealthHandler()

	rec := httptest.NewRecorder()
	h.Ping(rec, healthRequest("status"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
