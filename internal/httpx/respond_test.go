package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hsinyuc/go-night-market/internal/market"
)

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{market.ErrEmptyCart, http.StatusBadRequest},
		{market.ErrInsufficientPoints, http.StatusBadRequest},
		{&market.InsufficientStockError{ProductName: "x", Requested: 2, Available: 1}, http.StatusBadRequest},
		{market.ErrInvalidTransition, http.StatusBadRequest},
		{market.ErrUnsupportedStatus, http.StatusBadRequest},
		{market.ErrNotOwner, http.StatusForbidden},
		{market.ErrNotFound, http.StatusNotFound},
		{errors.New("pg down"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, errorStatus(c.err), "%v", c.err)
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestWriteErrorExposesValidationReason(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, market.ErrEmptyCart)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"cart is empty"}`, rec.Body.String())
}
