package listing

import (
	"fmt"

	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/marketutil"
)

// GetListing reports expiry as its own condition: the record is still stored
// and returned with the error, so callers can distinguish "gone" from "late".
func (uc *DefaultListingUsecase) GetListing(listingID uint64) (*domain.Listing, error) {
	foundListing, err := uc.store.Listings().GetListingByID(listingID)
	if err != nil {
		return nil, err
	}

	height, err := uc.heights.CurrentHeight()
	if err != nil {
		return nil, err
	}
	if marketutil.IsExpired(foundListing.ExpiresAt, height) {
		return foundListing, fmt.Errorf("listing %d expired at height %d: %w",
			listingID, foundListing.ExpiresAt, domain.ErrExpired)
	}

	return foundListing, nil
}

func (uc *DefaultListingUsecase) GetListingCount() (uint64, error) {
	return uc.store.Listings().GetListingCount()
}

// UpdateListingStatus is the administrative override; the escrow manager
// deactivates listings directly inside its purchase transaction.
func (uc *DefaultListingUsecase) UpdateListingStatus(caller string, listingID uint64, active bool) error {
	if caller != uc.platformAddress {
		return fmt.Errorf("caller %s may not change listing status: %w", caller, domain.ErrUnauthorized)
	}
	return uc.store.Listings().UpdateListingStatus(listingID, active)
}
