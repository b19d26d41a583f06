package escrow

import (
	"fmt"
	"log/slog"

	"github.com/jaevor/go-nanoid"
	"github.com/satsbridge/marketplace-service/internal/domain"
)

// OpenDispute moves an active escrow to disputed and records who raised it
// and why. Either trading party may open one; a second attempt while a
// dispute is pending fails AlreadyDisputed.
func (uc *DefaultEscrowUsecase) OpenDispute(caller string, listingID uint64, reason string) error {
	height, err := uc.heights.CurrentHeight()
	if err != nil {
		return err
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return err
	}

	var created *domain.Dispute
	err = uc.store.RunAtomic(func(s domain.Stores) error {
		lockedEscrow, err := s.Escrows().GetEscrowByListingID(listingID)
		if err != nil {
			return err
		}
		if caller != lockedEscrow.Buyer && caller != lockedEscrow.Seller {
			return fmt.Errorf("caller %s is neither buyer nor seller for listing %d: %w",
				caller, listingID, domain.ErrUnauthorized)
		}
		if lockedEscrow.Status == domain.EscrowDisputed {
			return fmt.Errorf("escrow for listing %d: %w", listingID, domain.ErrAlreadyDisputed)
		}
		if !lockedEscrow.Status.CanTransitionTo(domain.EscrowDisputed) {
			return fmt.Errorf("escrow for listing %d is %s: %w",
				listingID, lockedEscrow.Status, domain.ErrInvalidState)
		}

		newDispute := &domain.Dispute{
			ID:        idGenerator(),
			ListingID: listingID,
			Initiator: caller,
			Reason:    reason,
			Resolved:  false,
			CreatedAt: height,
		}
		if err := s.Disputes().CreateDispute(newDispute); err != nil {
			return err
		}
		if err := s.Escrows().UpdateEscrowStatus(listingID, domain.EscrowDisputed); err != nil {
			return err
		}

		created = newDispute
		return nil
	})
	if err != nil {
		return err
	}

	uc.metrics.DisputesOpenedTotal.Inc()
	slog.Info("dispute opened",
		"listing_id", listingID,
		"dispute_id", created.ID,
		"initiator", created.Initiator)
	uc.publishDisputeEvent(created)

	return nil
}
