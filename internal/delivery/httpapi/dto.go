package httpapi

import (
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/usecase/marketquery"
)

type createListingRequest struct {
	PricePerBtc uint64 `json:"price_per_btc"`
	BtcAmount   uint64 `json:"btc_amount"`
	BtcAddress  string `json:"btc_address"`
	ExpiresAt   uint64 `json:"expires_at"`
}

type createListingResponse struct {
	ListingID uint64 `json:"listing_id"`
}

type purchaseListingRequest struct {
	BtcReceiverAddress string `json:"btc_receiver_address"`
}

type purchaseListingResponse struct {
	EscrowID uint64 `json:"escrow_id"`
}

type confirmReceiptRequest struct {
	BtcTxRef string `json:"btc_tx_ref"`
}

type openDisputeRequest struct {
	Reason string `json:"reason"`
}

type updateListingStatusRequest struct {
	Active bool `json:"active"`
}

type listingResponse struct {
	ListingID   uint64 `json:"listing_id"`
	Seller      string `json:"seller"`
	PricePerBtc uint64 `json:"price_per_btc"`
	BtcAmount   uint64 `json:"btc_amount"`
	StxRequired uint64 `json:"stx_required"`
	BtcAddress  string `json:"btc_address"`
	Active      bool   `json:"active"`
	CreatedAt   uint64 `json:"created_at"`
	ExpiresAt   uint64 `json:"expires_at"`
}

type escrowResponse struct {
	ListingID          uint64 `json:"listing_id"`
	Buyer              string `json:"buyer"`
	Seller             string `json:"seller"`
	StxAmount          uint64 `json:"stx_amount"`
	BtcAmount          uint64 `json:"btc_amount"`
	BtcReceiverAddress string `json:"btc_receiver_address"`
	BtcTxRef           string `json:"btc_tx_ref,omitempty"`
	Status             string `json:"status"`
	CreatedAt          uint64 `json:"created_at"`
}

type disputeResponse struct {
	DisputeID string `json:"dispute_id"`
	ListingID uint64 `json:"listing_id"`
	Initiator string `json:"initiator"`
	Reason    string `json:"reason"`
	Resolved  bool   `json:"resolved"`
	CreatedAt uint64 `json:"created_at"`
}

type listingCountResponse struct {
	Count uint64 `json:"count"`
}

type listingDetailsResponse struct {
	Listing   listingResponse  `json:"listing"`
	Escrow    *escrowResponse  `json:"escrow"`
	Dispute   *disputeResponse `json:"dispute"`
	IsActive  bool             `json:"is_active"`
	IsExpired bool             `json:"is_expired"`
}

func toListingResponse(listing *domain.Listing) listingResponse {
	return listingResponse{
		ListingID:   listing.ID,
		Seller:      listing.Seller,
		PricePerBtc: listing.PricePerBtc,
		BtcAmount:   listing.BtcAmount,
		StxRequired: listing.StxRequired,
		BtcAddress:  listing.BtcAddress,
		Active:      listing.Active,
		CreatedAt:   listing.CreatedAt,
		ExpiresAt:   listing.ExpiresAt,
	}
}

func toEscrowResponse(escrow *domain.Escrow) escrowResponse {
	return escrowResponse{
		ListingID:          escrow.ListingID,
		Buyer:              escrow.Buyer,
		Seller:             escrow.Seller,
		StxAmount:          escrow.StxAmount,
		BtcAmount:          escrow.BtcAmount,
		BtcReceiverAddress: escrow.BtcReceiverAddress,
		BtcTxRef:           escrow.BtcTxRef,
		Status:             string(escrow.Status),
		CreatedAt:          escrow.CreatedAt,
	}
}

func toDisputeResponse(dispute *domain.Dispute) disputeResponse {
	return disputeResponse{
		DisputeID: dispute.ID,
		ListingID: dispute.ListingID,
		Initiator: dispute.Initiator,
		Reason:    dispute.Reason,
		Resolved:  dispute.Resolved,
		CreatedAt: dispute.CreatedAt,
	}
}

func toListingDetailsResponse(details *marketquery.ListingDetails) listingDetailsResponse {
	response := listingDetailsResponse{
		Listing:   toListingResponse(details.Listing),
		IsActive:  details.IsActive,
		IsExpired: details.IsExpired,
	}
	if details.Escrow != nil {
		escrow := toEscrowResponse(details.Escrow)
		response.Escrow = &escrow
	}
	if details.Dispute != nil {
		dispute := toDisputeResponse(details.Dispute)
		response.Dispute = &dispute
	}
	return response
}
