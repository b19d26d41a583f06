package listing

import (
	"fmt"
	"log/slog"

	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/marketutil"
)

func (uc *DefaultListingUsecase) CreateListing(input *domain.CreateListingInput) (uint64, error) {
	if input.PricePerBtc == 0 {
		return 0, fmt.Errorf("price per BTC must be positive: %w", domain.ErrInvalidInput)
	}
	if input.BtcAmount == 0 {
		return 0, fmt.Errorf("btc amount must be positive: %w", domain.ErrInvalidInput)
	}
	if input.BtcAddress == "" {
		return 0, fmt.Errorf("btc address is required: %w", domain.ErrInvalidInput)
	}

	height, err := uc.heights.CurrentHeight()
	if err != nil {
		return 0, err
	}
	if input.ExpiresAt <= height {
		return 0, fmt.Errorf("expiry height %d is not past current height %d: %w",
			input.ExpiresAt, height, domain.ErrInvalidInput)
	}

	newListing := &domain.Listing{
		Seller:      input.Seller,
		PricePerBtc: input.PricePerBtc,
		BtcAmount:   input.BtcAmount,
		StxRequired: marketutil.StxRequired(input.PricePerBtc, input.BtcAmount),
		BtcAddress:  input.BtcAddress,
		Active:      true,
		CreatedAt:   height,
		ExpiresAt:   input.ExpiresAt,
	}

	if err := uc.store.Listings().CreateListing(newListing); err != nil {
		return 0, err
	}

	uc.metrics.ListingsCreatedTotal.Inc()
	slog.Info("listing created",
		"listing_id", newListing.ID,
		"seller", newListing.Seller,
		"stx_required", newListing.StxRequired,
		"expires_at", newListing.ExpiresAt)

	return newListing.ID, nil
}
