package escrow

import (
	"fmt"
	"log/slog"

	"github.com/satsbridge/marketplace-service/internal/domain"
)

// RefundEscrow returns the full custodied amount to the buyer. Only the
// platform authority may refund, only from the disputed state, and no fee is
// ever taken on a refund. Marking the dispute resolved is a separate call
// (ResolveDispute); the platform workflow issues both.
func (uc *DefaultEscrowUsecase) RefundEscrow(caller string, listingID uint64) error {
	if caller != uc.platform.Address {
		return fmt.Errorf("caller %s may not refund escrows: %w", caller, domain.ErrUnauthorized)
	}

	var refunded *domain.Escrow
	err := uc.store.RunAtomic(func(s domain.Stores) error {
		lockedEscrow, err := s.Escrows().GetEscrowByListingID(listingID)
		if err != nil {
			return err
		}
		if lockedEscrow.Status == domain.EscrowRefunded {
			return fmt.Errorf("escrow for listing %d: %w", listingID, domain.ErrAlreadyRefunded)
		}
		if !lockedEscrow.Status.CanTransitionTo(domain.EscrowRefunded) {
			return fmt.Errorf("escrow for listing %d is %s, refund requires a dispute: %w",
				listingID, lockedEscrow.Status, domain.ErrInvalidState)
		}

		if err := s.Ledger().Transfer(uc.platform.VaultAddress, lockedEscrow.Buyer, lockedEscrow.StxAmount); err != nil {
			return err
		}
		if err := s.Escrows().UpdateEscrowStatus(listingID, domain.EscrowRefunded); err != nil {
			return err
		}

		refunded = lockedEscrow
		return nil
	})
	if err != nil {
		return err
	}

	uc.metrics.EscrowsRefundedTotal.Inc()
	slog.Info("escrow refunded",
		"listing_id", listingID,
		"buyer", refunded.Buyer,
		"stx_amount", refunded.StxAmount)

	refunded.Status = domain.EscrowRefunded
	uc.publishEscrowEvent(refunded)

	return nil
}
