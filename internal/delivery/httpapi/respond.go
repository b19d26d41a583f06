package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/satsbridge/marketplace-service/internal/domain"
)

const callerHeader = "X-Caller-Address"

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the domain error taxonomy onto HTTP statuses and a stable
// machine-readable code; clients branch on the code, the message is display
// text only.
func writeError(w http.ResponseWriter, err error) {
	var status int
	var code string
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusForbidden, "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrExpired):
		status, code = http.StatusGone, "expired"
	case errors.Is(err, domain.ErrAlreadyDisputed):
		status, code = http.StatusConflict, "already_disputed"
	case errors.Is(err, domain.ErrAlreadyRefunded):
		status, code = http.StatusConflict, "already_refunded"
	case errors.Is(err, domain.ErrInvalidState):
		status, code = http.StatusConflict, "invalid_state"
	case errors.Is(err, domain.ErrBtcTxUnverified):
		status, code = http.StatusUnprocessableEntity, "btc_tx_unverified"
	case errors.Is(err, domain.ErrInsufficientFunds):
		status, code = http.StatusPaymentRequired, "insufficient_funds"
	default:
		status, code = http.StatusInternalServerError, "internal"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

// callerFrom reads the caller identity the upstream gateway authenticated.
func callerFrom(r *http.Request) (string, error) {
	caller := r.Header.Get(callerHeader)
	if caller == "" {
		return "", errors.New("missing " + callerHeader + " header")
	}
	return caller, nil
}
