package httpapi

import (
	"fmt"
	"net/http"

	"github.com/satsbridge/marketplace-service/internal/domain"
)

type DisputeHandler struct {
	uc domain.DisputeUsecase
}

func NewDisputeHandler(uc domain.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{uc: uc}
}

func (h *DisputeHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: err.Error()})
		return
	}

	listingID, err := listingIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: err.Error()})
		return
	}

	if err := h.uc.ResolveDispute(caller, listingID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DisputeHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	listingID, err := listingIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: err.Error()})
		return
	}

	foundDispute, err := h.uc.GetDispute(listingID)
	if err != nil {
		writeError(w, err)
		return
	}
	if foundDispute == nil {
		writeError(w, fmt.Errorf("dispute for listing %d: %w", listingID, domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, toDisputeResponse(foundDispute))
}
