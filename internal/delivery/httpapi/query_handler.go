package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/satsbridge/marketplace-service/internal/usecase/marketquery"
)

// maxBatchSpan bounds a single range scan so one request cannot walk the
// whole listing table.
const maxBatchSpan = 200

type QueryHandler struct {
	uc *marketquery.DefaultMarketQueryUsecase
}

func NewQueryHandler(uc *marketquery.DefaultMarketQueryUsecase) *QueryHandler {
	return &QueryHandler{uc: uc}
}

func (h *QueryHandler) GetListingDetails(w http.ResponseWriter, r *http.Request) {
	listingID, err := listingIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: err.Error()})
		return
	}

	details, err := h.uc.GetListingWithDetails(listingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDetailsResponse(details))
}

func (h *QueryHandler) GetListingsBatch(w http.ResponseWriter, r *http.Request) {
	startID, err := queryUint(r, "start")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: err.Error()})
		return
	}
	endID, err := queryUint(r, "end")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_input", Message: err.Error()})
		return
	}
	if endID >= startID && endID-startID+1 > maxBatchSpan {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "invalid_input",
			Message: "range spans more than " + strconv.Itoa(maxBatchSpan) + " listings",
		})
		return
	}

	listings, err := h.uc.GetListingsBatch(startID, endID)
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]listingResponse, 0, len(listings))
	for _, foundListing := range listings {
		response = append(response, toListingResponse(foundListing))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *QueryHandler) GetSellerListings(w http.ResponseWriter, r *http.Request) {
	seller := chi.URLParam(r, "address")

	listings, err := h.uc.GetSellerListings(seller)
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]listingResponse, 0, len(listings))
	for _, foundListing := range listings {
		response = append(response, toListingResponse(foundListing))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *QueryHandler) GetBuyerPurchases(w http.ResponseWriter, r *http.Request) {
	buyer := chi.URLParam(r, "address")

	escrows, err := h.uc.GetBuyerPurchases(buyer)
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]escrowResponse, 0, len(escrows))
	for _, foundEscrow := range escrows {
		response = append(response, toEscrowResponse(foundEscrow))
	}
	writeJSON(w, http.StatusOK, response)
}

func queryUint(r *http.Request, name string) (uint64, error) {
	raw := r.URL.Query().Get(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be a non-negative integer", name)
	}
	return value, nil
}
