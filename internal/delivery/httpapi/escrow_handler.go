package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/satsbridge/marketplace-service/internal/domain"
)

type EscrowHandler struct {
	uc domain.EscrowUsecase
}

func NewEscrowHandler(uc domain.EscrowUsecase) *EscrowHandler {
	return &EscrowHandler{uc: uc}
}

func (h *EscrowHandler) PurchaseListing(w http.ResponseWriter, r *http.Request) {
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

	var req purchaseListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	escrowID, err := h.uc.PurchaseListing(caller, listingID, req.BtcReceiverAddress)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchaseListingResponse{EscrowID: escrowID})
}

func (h *EscrowHandler) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
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

	var req confirmReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	if err := h.uc.ConfirmReceipt(caller, listingID, req.BtcTxRef); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EscrowHandler) OpenDispute(w http.ResponseWriter, r *http.Request) {
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

	var req openDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	if err := h.uc.OpenDispute(caller, listingID, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EscrowHandler) RefundEscrow(w http.ResponseWriter, r *http.Request) {
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

	if err := h.uc.RefundEscrow(caller, listingID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EscrowHandler) GetEscrow(w http.ResponseWriter, r *http.Request) {
	listingID, err := listingIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: err.Error()})
		return
	}

	foundEscrow, err := h.uc.GetEscrow(listingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEscrowResponse(foundEscrow))
}
