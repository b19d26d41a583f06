package escrow

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/satsbridge/marketplace-service/internal/config"
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/kafka"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/metrics"
)

// EventPublisher is the slice of the kafka publisher the escrow manager
// needs; tests plug in a recorder.
type EventPublisher interface {
	PublishEscrow(event kafka.EscrowEvent) error
	PublishDispute(event kafka.DisputeEvent) error
}

// DefaultEscrowUsecase is the escrow manager: every fund movement in the
// marketplace goes through its transitions, each one a single atomic
// transaction over escrow, listing, dispute and ledger state.
type DefaultEscrowUsecase struct {
	store     domain.TxStore
	verifier  domain.BtcVerifier
	heights   domain.HeightProvider
	publisher EventPublisher
	metrics   *metrics.MarketMetrics
	platform  config.Platform
}

func NewDefaultEscrowUsecase(
	store domain.TxStore,
	verifier domain.BtcVerifier,
	heights domain.HeightProvider,
	publisher EventPublisher,
	marketMetrics *metrics.MarketMetrics,
	platform config.Platform) *DefaultEscrowUsecase {

	return &DefaultEscrowUsecase{
		store:     store,
		verifier:  verifier,
		heights:   heights,
		publisher: publisher,
		metrics:   marketMetrics,
		platform:  platform,
	}
}

// publishEscrowEvent emits asynchronously after the transition committed;
// event delivery never blocks or fails a state change.
func (uc *DefaultEscrowUsecase) publishEscrowEvent(escrow *domain.Escrow) {
	if uc.publisher == nil {
		return
	}
	go func(event kafka.EscrowEvent) {
		if err := uc.publisher.PublishEscrow(event); err != nil {
			slog.Error("failed to publish kafka EscrowEvent", "listing_id", event.ListingID, "error", err.Error())
		}
	}(kafka.EscrowEvent{
		EventID:   uuid.NewString(),
		ListingID: escrow.ListingID,
		Buyer:     escrow.Buyer,
		Seller:    escrow.Seller,
		Status:    string(escrow.Status),
		StxAmount: escrow.StxAmount,
		BtcAmount: escrow.BtcAmount,
		BtcTxRef:  escrow.BtcTxRef,
	})
}

func (uc *DefaultEscrowUsecase) publishDisputeEvent(dispute *domain.Dispute) {
	if uc.publisher == nil {
		return
	}
	go func(event kafka.DisputeEvent) {
		if err := uc.publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish kafka DisputeEvent", "listing_id", event.ListingID, "error", err.Error())
		}
	}(kafka.DisputeEvent{
		EventID:   uuid.NewString(),
		DisputeID: dispute.ID,
		ListingID: dispute.ListingID,
		Initiator: dispute.Initiator,
		Reason:    dispute.Reason,
		Resolved:  dispute.Resolved,
	})
}
