package listing

import (
	"log/slog"
)

// DeactivateExpiredListings flips expired listings to inactive so they stop
// showing up in storefront scans. Expiry is already enforced at read and
// purchase time against the live height; the sweep just keeps the table
// tidy. Returns how many listings were deactivated.
func (uc *DefaultListingUsecase) DeactivateExpiredListings() (int, error) {
	height, err := uc.heights.CurrentHeight()
	if err != nil {
		return 0, err
	}

	expired, err := uc.store.Listings().GetExpiredActiveListings(height)
	if err != nil {
		return 0, err
	}

	deactivated := 0
	for _, expiredListing := range expired {
		if err := uc.store.Listings().UpdateListingStatus(expiredListing.ID, false); err != nil {
			slog.Error("failed to deactivate expired listing", "listing_id", expiredListing.ID, "error", err.Error())
			continue
		}
		uc.metrics.ListingsExpiredTotal.Inc()
		deactivated++
	}

	if deactivated > 0 {
		slog.Info("expired listings deactivated", "count", deactivated, "height", height)
	}
	return deactivated, nil
}
