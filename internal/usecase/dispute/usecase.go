package dispute

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/kafka"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/metrics"
)

type EventPublisher interface {
	PublishDispute(event kafka.DisputeEvent) error
}

// DefaultDisputeUsecase is the dispute ledger. Opening a dispute lives with
// the escrow manager because it is an escrow transition; this side records
// the platform's resolution decision. The fund effect (refund or release) is
// a separate escrow-manager call made by the same platform workflow.
type DefaultDisputeUsecase struct {
	store           domain.TxStore
	platformAddress string
	publisher       EventPublisher
	metrics         *metrics.MarketMetrics
}

func NewDefaultDisputeUsecase(
	store domain.TxStore,
	platformAddress string,
	publisher EventPublisher,
	marketMetrics *metrics.MarketMetrics) *DefaultDisputeUsecase {

	return &DefaultDisputeUsecase{
		store:           store,
		platformAddress: platformAddress,
		publisher:       publisher,
		metrics:         marketMetrics,
	}
}

func (uc *DefaultDisputeUsecase) ResolveDispute(caller string, listingID uint64) error {
	if caller != uc.platformAddress {
		return fmt.Errorf("caller %s may not resolve disputes: %w", caller, domain.ErrUnauthorized)
	}

	foundDispute, err := uc.store.Disputes().GetDisputeByListingID(listingID)
	if err != nil {
		return err
	}
	if foundDispute == nil {
		return fmt.Errorf("dispute for listing %d: %w", listingID, domain.ErrNotFound)
	}

	if err := uc.store.Disputes().ResolveDispute(listingID); err != nil {
		return err
	}

	uc.metrics.DisputesResolvedTotal.Inc()
	slog.Info("dispute resolved", "listing_id", listingID, "dispute_id", foundDispute.ID)

	if uc.publisher != nil {
		go func(event kafka.DisputeEvent) {
			if err := uc.publisher.PublishDispute(event); err != nil {
				slog.Error("failed to publish kafka DisputeEvent", "listing_id", event.ListingID, "error", err.Error())
			}
		}(kafka.DisputeEvent{
			EventID:   uuid.NewString(),
			DisputeID: foundDispute.ID,
			ListingID: listingID,
			Initiator: foundDispute.Initiator,
			Reason:    foundDispute.Reason,
			Resolved:  true,
		})
	}

	return nil
}

// GetDispute returns (nil, nil) when no dispute exists; absence is shown to
// clients as a missing field, never as an error.
func (uc *DefaultDisputeUsecase) GetDispute(listingID uint64) (*domain.Dispute, error) {
	return uc.store.Disputes().GetDisputeByListingID(listingID)
}
