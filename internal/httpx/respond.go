package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hsinyuc/go-night-market/internal/market"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func errorStatus(err error) int {
	var stockErr *market.InsufficientStockError
	switch {
	case errors.Is(err, market.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, market.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, market.ErrEmptyCart),
		errors.Is(err, market.ErrInsufficientPoints),
		errors.Is(err, market.ErrInvalidTransition),
		errors.Is(err, market.ErrUnsupportedStatus),
		errors.Is(err, market.ErrProductUnavailable),
		errors.As(err, &stockErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps domain validation failures to 4xx with the real reason and
// hides everything else behind a generic 500.
func writeError(w http.ResponseWriter, err error) {
	code := errorStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, code, map[string]string{"error": msg})
}
