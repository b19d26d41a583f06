// Package marketquery is the read-only composition layer: it joins listing,
// escrow and dispute records for client display and never mutates anything.
// Absent optional records come back as nil fields, not errors.
package marketquery

import (
	"errors"

	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/marketutil"
)

type ListingDetails struct {
	Listing   *domain.Listing
	Escrow    *domain.Escrow  // nil when the listing was never purchased
	Dispute   *domain.Dispute // nil when no dispute was opened
	IsActive  bool
	IsExpired bool
}

type DefaultMarketQueryUsecase struct {
	store   domain.TxStore
	heights domain.HeightProvider
}

func NewDefaultMarketQueryUsecase(store domain.TxStore, heights domain.HeightProvider) *DefaultMarketQueryUsecase {
	return &DefaultMarketQueryUsecase{store: store, heights: heights}
}

func (uc *DefaultMarketQueryUsecase) GetListingWithDetails(listingID uint64) (*ListingDetails, error) {
	foundListing, err := uc.store.Listings().GetListingByID(listingID)
	if err != nil {
		return nil, err
	}

	foundEscrow, err := uc.store.Escrows().GetEscrowByListingID(listingID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	foundDispute, err := uc.store.Disputes().GetDisputeByListingID(listingID)
	if err != nil {
		return nil, err
	}

	height, err := uc.heights.CurrentHeight()
	if err != nil {
		return nil, err
	}
	expired := marketutil.IsExpired(foundListing.ExpiresAt, height)

	return &ListingDetails{
		Listing:   foundListing,
		Escrow:    foundEscrow,
		Dispute:   foundDispute,
		IsActive:  foundListing.Active && !expired,
		IsExpired: expired,
	}, nil
}

// GetListingsBatch scans ids in [startID, endID], skipping gaps rather than
// failing on them.
func (uc *DefaultMarketQueryUsecase) GetListingsBatch(startID, endID uint64) ([]*domain.Listing, error) {
	if startID > endID {
		return []*domain.Listing{}, nil
	}
	return uc.store.Listings().GetListingsByRange(startID, endID)
}

func (uc *DefaultMarketQueryUsecase) GetSellerListings(seller string) ([]*domain.Listing, error) {
	return uc.store.Listings().GetListingsBySeller(seller)
}

func (uc *DefaultMarketQueryUsecase) GetBuyerPurchases(buyer string) ([]*domain.Escrow, error) {
	return uc.store.Escrows().GetEscrowsByBuyer(buyer)
}
