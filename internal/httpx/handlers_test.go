package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// Request validation rejects before any repository call, so these run with
// zero-value handlers.

func TestCheckoutRequiresIdentity(t *testing.T) {
	h := &OrdersHandler{Log: zap.NewNop()}
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"use_points":0}`))
	rec := httptest.NewRecorder()

	h.checkout(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutRejectsBadJSON(t *testing.T) {
	h := &OrdersHandler{Log: zap.NewNop()}
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{not json`))
	req.Header.Set(headerMemberID, "mem-1")
	rec := httptest.NewRecorder()

	h.checkout(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutRejectsNegativePoints(t *testing.T) {
	h := &OrdersHandler{Log: zap.NewNop()}
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"use_points":-5}`))
	req.Header.Set(headerMemberID, "mem-1")
	rec := httptest.NewRecorder()

	h.checkout(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAddValidation(t *testing.T) {
	h := &CartHandler{Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"product_id":"","quantity":0}`))
	req.Header.Set(headerMemberID, "mem-1")
	rec := httptest.NewRecorder()
	h.add(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"product_id":"p1","quantity":2}`))
	rec = httptest.NewRecorder()
	h.add(rec, req) // no identity header
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartUpdateRejectsNonPositiveQuantity(t *testing.T) {
	h := &CartHandler{Log: zap.NewNop()}
	req := httptest.NewRequest(http.MethodPatch, "/api/cart/ci-1", strings.NewReader(`{"quantity":-1}`))
	req.Header.Set(headerMemberID, "mem-1")
	rec := httptest.NewRecorder()

	h.updateQuantity(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	r := NewRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
