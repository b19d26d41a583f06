package escrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/marketutil"
)

// ConfirmReceipt releases custody to the seller once the oracle vouches for
// the claimed BTC payment. The buyer confirms their own escrow; the platform
// authority may use the same path only on a disputed escrow, to settle it in
// the seller's favor — it never completes an undisputed trade over the
// buyer's head. Nothing mutates unless the oracle says yes: a false answer
// and an oracle failure both leave the escrow untouched and retryable,
// surfaced as distinct errors (ErrBtcTxUnverified vs ErrOracleFailure).
func (uc *DefaultEscrowUsecase) ConfirmReceipt(caller string, listingID uint64, btcTxRef string) error {
	if btcTxRef == "" {
		return fmt.Errorf("btc tx reference is required: %w", domain.ErrInvalidInput)
	}

	currentEscrow, err := uc.store.Escrows().GetEscrowByListingID(listingID)
	if err != nil {
		return err
	}
	if caller != currentEscrow.Buyer {
		if caller != uc.platform.Address {
			return fmt.Errorf("caller %s may not confirm receipt for listing %d: %w",
				caller, listingID, domain.ErrUnauthorized)
		}
		if currentEscrow.Status != domain.EscrowDisputed {
			return fmt.Errorf("platform may only settle a disputed escrow, listing %d is %s: %w",
				listingID, currentEscrow.Status, domain.ErrUnauthorized)
		}
	}
	if !currentEscrow.Status.CanTransitionTo(domain.EscrowCompleted) {
		return fmt.Errorf("escrow for listing %d is %s: %w",
			listingID, currentEscrow.Status, domain.ErrInvalidState)
	}

	start := time.Now()
	verified, err := uc.verifier.IsPaymentVerified(
		context.Background(), btcTxRef, currentEscrow.BtcAmount, currentEscrow.BtcReceiverAddress)
	uc.metrics.OracleCheckDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			uc.metrics.OracleChecksTotal.WithLabelValues("invalid").Inc()
			return err
		}
		uc.metrics.OracleChecksTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("btc verification failed (%v): %w", err, domain.ErrOracleFailure)
	}
	if !verified {
		uc.metrics.OracleChecksTotal.WithLabelValues("unverified").Inc()
		return fmt.Errorf("btc payment not confirmed for listing %d: %w", listingID, domain.ErrBtcTxUnverified)
	}
	uc.metrics.OracleChecksTotal.WithLabelValues("verified").Inc()

	fee := marketutil.Fee(currentEscrow.StxAmount, uc.platform.FeeBps)
	err = uc.store.RunAtomic(func(s domain.Stores) error {
		// re-read inside the transaction: the pre-check was advisory only
		lockedEscrow, err := s.Escrows().GetEscrowByListingID(listingID)
		if err != nil {
			return err
		}
		if !lockedEscrow.Status.CanTransitionTo(domain.EscrowCompleted) {
			return fmt.Errorf("escrow for listing %d is %s: %w",
				listingID, lockedEscrow.Status, domain.ErrInvalidState)
		}
		if caller != lockedEscrow.Buyer && lockedEscrow.Status != domain.EscrowDisputed {
			return fmt.Errorf("platform may only settle a disputed escrow, listing %d is %s: %w",
				listingID, lockedEscrow.Status, domain.ErrUnauthorized)
		}

		if err := s.Ledger().Transfer(uc.platform.VaultAddress, lockedEscrow.Seller, lockedEscrow.StxAmount-fee); err != nil {
			return err
		}
		if err := s.Ledger().Transfer(uc.platform.VaultAddress, uc.platform.Address, fee); err != nil {
			return err
		}
		if err := s.Escrows().SetEscrowTxRef(listingID, btcTxRef); err != nil {
			return err
		}
		return s.Escrows().UpdateEscrowStatus(listingID, domain.EscrowCompleted)
	})
	if err != nil {
		return err
	}

	uc.metrics.EscrowsCompletedTotal.Inc()
	uc.metrics.PlatformFeesTotal.Add(float64(fee))
	slog.Info("escrow completed",
		"listing_id", listingID,
		"seller", currentEscrow.Seller,
		"released", currentEscrow.StxAmount-fee,
		"platform_fee", fee,
		"btc_tx_ref", btcTxRef)

	currentEscrow.Status = domain.EscrowCompleted
	currentEscrow.BtcTxRef = btcTxRef
	uc.publishEscrowEvent(currentEscrow)

	return nil
}
