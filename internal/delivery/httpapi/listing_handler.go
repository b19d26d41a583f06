package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/satsbridge/marketplace-service/internal/domain"
)

type ListingHandler struct {
	uc domain.ListingUsecase
}

func NewListingHandler(uc domain.ListingUsecase) *ListingHandler {
	return &ListingHandler{uc: uc}
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: err.Error()})
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	listingID, err := h.uc.CreateListing(&domain.CreateListingInput{
		Seller:      caller,
		PricePerBtc: req.PricePerBtc,
		BtcAmount:   req.BtcAmount,
		BtcAddress:  req.BtcAddress,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createListingResponse{ListingID: listingID})
}

func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := listingIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: err.Error()})
		return
	}

	foundListing, err := h.uc.GetListing(listingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(foundListing))
}

func (h *ListingHandler) GetListingCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.uc.GetListingCount()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listingCountResponse{Count: count})
}

func (h *ListingHandler) UpdateListingStatus(w http.ResponseWriter, r *http.Request) {
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

	var req updateListingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: "malformed request body"})
		return
	}

	if err := h.uc.UpdateListingStatus(caller, listingID, req.Active); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func listingIDFrom(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	listingID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("listing id must be a positive integer")
	}
	return listingID, nil
}
