package escrow

import (
	"fmt"
	"log/slog"

	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/marketutil"
)

// PurchaseListing moves the buyer's STX into the vault, opens the escrow and
// deactivates the listing, all in one transaction. A deactivated listing is
// reported as absent, which is what makes a second purchase impossible.
func (uc *DefaultEscrowUsecase) PurchaseListing(caller string, listingID uint64, btcReceiverAddress string) (uint64, error) {
	if btcReceiverAddress == "" {
		return 0, fmt.Errorf("btc receiver address is required: %w", domain.ErrInvalidInput)
	}

	height, err := uc.heights.CurrentHeight()
	if err != nil {
		return 0, err
	}

	var created *domain.Escrow
	err = uc.store.RunAtomic(func(s domain.Stores) error {
		targetListing, err := s.Listings().GetListingByID(listingID)
		if err != nil {
			return err
		}
		if !targetListing.Active {
			return fmt.Errorf("listing %d is no longer available: %w", listingID, domain.ErrNotFound)
		}
		if marketutil.IsExpired(targetListing.ExpiresAt, height) {
			return fmt.Errorf("listing %d expired at height %d: %w",
				listingID, targetListing.ExpiresAt, domain.ErrExpired)
		}

		// custody the buyer's funds before any record changes
		if err := s.Ledger().Transfer(caller, uc.platform.VaultAddress, targetListing.StxRequired); err != nil {
			return err
		}

		newEscrow := &domain.Escrow{
			ListingID:          listingID,
			Buyer:              caller,
			Seller:             targetListing.Seller,
			StxAmount:          targetListing.StxRequired,
			BtcAmount:          targetListing.BtcAmount,
			BtcReceiverAddress: btcReceiverAddress,
			Status:             domain.EscrowActive,
			CreatedAt:          height,
		}
		if err := s.Escrows().CreateEscrow(newEscrow); err != nil {
			return err
		}
		if err := s.Listings().UpdateListingStatus(listingID, false); err != nil {
			return err
		}

		created = newEscrow
		return nil
	})
	if err != nil {
		return 0, err
	}

	uc.metrics.EscrowsCreatedTotal.Inc()
	uc.metrics.StxCustodiedTotal.Add(float64(created.StxAmount))
	slog.Info("escrow opened",
		"listing_id", listingID,
		"buyer", created.Buyer,
		"seller", created.Seller,
		"stx_amount", created.StxAmount)
	uc.publishEscrowEvent(created)

	return listingID, nil
}
