package escrow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/satsbridge/marketplace-service/internal/config"
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/chain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/metrics"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres"
	"github.com/satsbridge/marketplace-service/internal/marketutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	seller   = "ST2SELLER"
	buyer    = "ST3BUYER"
	platform = "ST1PLATFORM"
	vault    = "ST1VAULT"
	outsider = "ST4OUTSIDER"

	goodTxRef = "aa11bb22cc33dd44ee55ff6600112233445566778899aabbccddeeff00112233"
)

type stubVerifier struct {
	verified bool
	err      error
	calls    int
}

func (s *stubVerifier) IsPaymentVerified(_ context.Context, _ string, _ uint64, _ string) (bool, error) {
	s.calls++
	return s.verified, s.err
}

func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, postgres.AutoMigrate(db))
	return postgres.NewStore(db)
}

type escrowFixture struct {
	store    *postgres.Store
	uc       *DefaultEscrowUsecase
	verifier *stubVerifier
}

func newEscrowFixture(t *testing.T, height uint64) *escrowFixture {
	t.Helper()
	store := newTestStore(t)
	verifier := &stubVerifier{verified: true}
	uc := NewDefaultEscrowUsecase(
		store,
		verifier,
		&chain.StaticHeightProvider{Height: height},
		nil,
		metrics.NewMarketMetrics(prometheus.NewRegistry()),
		config.Platform{Address: platform, VaultAddress: vault, FeeBps: marketutil.PlatformFeeBps},
	)
	return &escrowFixture{store: store, uc: uc, verifier: verifier}
}

// seedListing stores an active listing priced at 20 STX per BTC for 0.01 BTC,
// which requires 200_000_000 microSTX from the buyer.
func (f *escrowFixture) seedListing(t *testing.T, expiresAt uint64) uint64 {
	t.Helper()
	newListing := &domain.Listing{
		Seller:      seller,
		PricePerBtc: 20_000_000_000,
		BtcAmount:   1_000_000,
		StxRequired: marketutil.StxRequired(20_000_000_000, 1_000_000),
		BtcAddress:  "bc1qselleraddress",
		Active:      true,
		CreatedAt:   1_000,
		ExpiresAt:   expiresAt,
	}
	require.NoError(t, f.store.Listings().CreateListing(newListing))
	return newListing.ID
}

func (f *escrowFixture) fundBuyer(t *testing.T, amount uint64) {
	t.Helper()
	require.NoError(t, f.store.Ledger().Credit(buyer, amount))
}

func (f *escrowFixture) balance(t *testing.T, address string) uint64 {
	t.Helper()
	balance, err := f.store.Ledger().GetBalance(address)
	require.NoError(t, err)
	return balance
}

func TestPurchaseListing(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 250_000_000)

	escrowID, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)
	require.Equal(t, listingID, escrowID)

	require.Equal(t, uint64(50_000_000), f.balance(t, buyer))
	require.Equal(t, uint64(200_000_000), f.balance(t, vault))

	createdEscrow, err := f.uc.GetEscrow(listingID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowActive, createdEscrow.Status)
	require.Equal(t, buyer, createdEscrow.Buyer)
	require.Equal(t, seller, createdEscrow.Seller)
	require.Equal(t, uint64(200_000_000), createdEscrow.StxAmount)
	require.Equal(t, uint64(2_000), createdEscrow.CreatedAt)
	require.Empty(t, createdEscrow.BtcTxRef)

	purchasedListing, err := f.store.Listings().GetListingByID(listingID)
	require.NoError(t, err)
	require.False(t, purchasedListing.Active)
}

func TestPurchaseListingTwiceFails(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 500_000_000)

	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	_, err = f.uc.PurchaseListing(outsider, listingID, "bc1qotherreceives")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseListingInsufficientFunds(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 100)

	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// the failed purchase must not leave partial state behind
	require.Equal(t, uint64(100), f.balance(t, buyer))
	_, err = f.uc.GetEscrow(listingID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	untouchedListing, err := f.store.Listings().GetListingByID(listingID)
	require.NoError(t, err)
	require.True(t, untouchedListing.Active)
}

func TestPurchaseListingExpired(t *testing.T) {
	f := newEscrowFixture(t, 12_000)
	listingID := f.seedListing(t, 11_000)
	f.fundBuyer(t, 250_000_000)

	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.ErrorIs(t, err, domain.ErrExpired)
}

func TestPurchaseListingValidation(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)

	_, err := f.uc.PurchaseListing(buyer, listingID, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.PurchaseListing(buyer, 9_999, "bc1qbuyerreceives")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmReceiptReleasesFunds(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	require.NoError(t, f.uc.ConfirmReceipt(buyer, listingID, goodTxRef))

	// 10% platform fee on 200_000_000
	require.Equal(t, uint64(180_000_000), f.balance(t, seller))
	require.Equal(t, uint64(20_000_000), f.balance(t, platform))
	require.Equal(t, uint64(0), f.balance(t, vault))

	completedEscrow, err := f.uc.GetEscrow(listingID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowCompleted, completedEscrow.Status)
	require.Equal(t, goodTxRef, completedEscrow.BtcTxRef)
}

func TestConfirmReceiptUnauthorized(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	require.ErrorIs(t, f.uc.ConfirmReceipt(seller, listingID, goodTxRef), domain.ErrUnauthorized)
	require.ErrorIs(t, f.uc.ConfirmReceipt(outsider, listingID, goodTxRef), domain.ErrUnauthorized)

	require.Equal(t, 0, f.verifier.calls)
}

func TestConfirmReceiptPlatformRequiresDispute(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	// the platform has no business settling an undisputed trade
	require.ErrorIs(t, f.uc.ConfirmReceipt(platform, listingID, goodTxRef), domain.ErrUnauthorized)
	require.Equal(t, 0, f.verifier.calls)

	require.Equal(t, uint64(200_000_000), f.balance(t, vault))
	require.Equal(t, uint64(0), f.balance(t, seller))
	untouchedEscrow, err := f.uc.GetEscrow(listingID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowActive, untouchedEscrow.Status)

	// the buyer's own confirmation still goes through
	require.NoError(t, f.uc.ConfirmReceipt(buyer, listingID, goodTxRef))
}

func TestConfirmReceiptUnverifiedPayment(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	f.verifier.verified = false
	err = f.uc.ConfirmReceipt(buyer, listingID, goodTxRef)
	require.ErrorIs(t, err, domain.ErrBtcTxUnverified)
	// "not paid" is not an oracle failure
	require.NotErrorIs(t, err, domain.ErrOracleFailure)

	// nothing moved, the escrow stays confirmable
	require.Equal(t, uint64(200_000_000), f.balance(t, vault))
	pendingEscrow, err := f.uc.GetEscrow(listingID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowActive, pendingEscrow.Status)
	require.Empty(t, pendingEscrow.BtcTxRef)

	// an oracle outage is its own condition, still matching BtcTxUnverified
	f.verifier.verified = true
	f.verifier.err = errors.New("explorer unreachable")
	err = f.uc.ConfirmReceipt(buyer, listingID, goodTxRef)
	require.ErrorIs(t, err, domain.ErrOracleFailure)
	require.ErrorIs(t, err, domain.ErrBtcTxUnverified)

	// and a retry after recovery succeeds
	f.verifier.err = nil
	require.NoError(t, f.uc.ConfirmReceipt(buyer, listingID, goodTxRef))
}

func TestConfirmReceiptValidation(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	require.ErrorIs(t, f.uc.ConfirmReceipt(buyer, listingID, ""), domain.ErrInvalidInput)
	require.ErrorIs(t, f.uc.ConfirmReceipt(buyer, 9_999, goodTxRef), domain.ErrNotFound)
}

func TestConfirmReceiptAlreadyCompleted(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)
	require.NoError(t, f.uc.ConfirmReceipt(buyer, listingID, goodTxRef))

	err = f.uc.ConfirmReceipt(buyer, listingID, goodTxRef)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	// no double release
	require.Equal(t, uint64(180_000_000), f.balance(t, seller))
}

func TestOpenDispute(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	require.NoError(t, f.uc.OpenDispute(buyer, listingID, "btc never arrived"))

	disputedEscrow, err := f.uc.GetEscrow(listingID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowDisputed, disputedEscrow.Status)

	openDispute, err := f.store.Disputes().GetDisputeByListingID(listingID)
	require.NoError(t, err)
	require.NotNil(t, openDispute)
	require.Equal(t, buyer, openDispute.Initiator)
	require.Equal(t, "btc never arrived", openDispute.Reason)
	require.False(t, openDispute.Resolved)
	require.Len(t, openDispute.ID, 15)
}

func TestOpenDisputeBySeller(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	require.NoError(t, f.uc.OpenDispute(seller, listingID, "buyer claims a payment I cannot see"))

	openDispute, err := f.store.Disputes().GetDisputeByListingID(listingID)
	require.NoError(t, err)
	require.Equal(t, seller, openDispute.Initiator)
}

func TestOpenDisputeRejections(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	require.ErrorIs(t, f.uc.OpenDispute(outsider, listingID, "not my trade"), domain.ErrUnauthorized)

	require.NoError(t, f.uc.OpenDispute(buyer, listingID, "btc never arrived"))
	require.ErrorIs(t, f.uc.OpenDispute(seller, listingID, "counter claim"), domain.ErrAlreadyDisputed)
}

func TestOpenDisputeOnSettledEscrow(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)
	require.NoError(t, f.uc.ConfirmReceipt(buyer, listingID, goodTxRef))

	require.ErrorIs(t, f.uc.OpenDispute(buyer, listingID, "too late"), domain.ErrInvalidState)
}

func TestConfirmReceiptSettlesDisputeForSeller(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)
	require.NoError(t, f.uc.OpenDispute(buyer, listingID, "btc never arrived"))

	// the platform checked the chain, the seller did pay
	require.NoError(t, f.uc.ConfirmReceipt(platform, listingID, goodTxRef))

	settledEscrow, err := f.uc.GetEscrow(listingID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowCompleted, settledEscrow.Status)
	require.Equal(t, uint64(180_000_000), f.balance(t, seller))
}

func TestRefundEscrow(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)
	require.NoError(t, f.uc.OpenDispute(buyer, listingID, "btc never arrived"))

	require.NoError(t, f.uc.RefundEscrow(platform, listingID))

	// full amount back, no fee on refunds
	require.Equal(t, uint64(200_000_000), f.balance(t, buyer))
	require.Equal(t, uint64(0), f.balance(t, vault))
	require.Equal(t, uint64(0), f.balance(t, platform))

	refundedEscrow, err := f.uc.GetEscrow(listingID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowRefunded, refundedEscrow.Status)
}

func TestRefundEscrowTwiceFails(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)
	require.NoError(t, f.uc.OpenDispute(buyer, listingID, "btc never arrived"))
	require.NoError(t, f.uc.RefundEscrow(platform, listingID))

	require.ErrorIs(t, f.uc.RefundEscrow(platform, listingID), domain.ErrAlreadyRefunded)
	require.Equal(t, uint64(200_000_000), f.balance(t, buyer))
}

func TestRefundEscrowRequiresDispute(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)

	require.ErrorIs(t, f.uc.RefundEscrow(platform, listingID), domain.ErrInvalidState)
}

func TestRefundEscrowUnauthorized(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)
	require.NoError(t, f.uc.OpenDispute(buyer, listingID, "btc never arrived"))

	require.ErrorIs(t, f.uc.RefundEscrow(buyer, listingID), domain.ErrUnauthorized)
	require.ErrorIs(t, f.uc.RefundEscrow(seller, listingID), domain.ErrUnauthorized)
}

func TestRefundEscrowAfterCompletion(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)
	require.NoError(t, f.uc.ConfirmReceipt(buyer, listingID, goodTxRef))

	// completed is terminal, even for the platform
	require.ErrorIs(t, f.uc.RefundEscrow(platform, listingID), domain.ErrInvalidState)
	require.Equal(t, uint64(180_000_000), f.balance(t, seller))
	require.Equal(t, uint64(0), f.balance(t, buyer))
}

func TestConfirmReceiptAfterRefund(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	listingID := f.seedListing(t, 3_000)
	f.fundBuyer(t, 200_000_000)
	_, err := f.uc.PurchaseListing(buyer, listingID, "bc1qbuyerreceives")
	require.NoError(t, err)
	require.NoError(t, f.uc.OpenDispute(buyer, listingID, "btc never arrived"))
	require.NoError(t, f.uc.RefundEscrow(platform, listingID))

	// refunded is terminal, even for the buyer
	require.ErrorIs(t, f.uc.ConfirmReceipt(buyer, listingID, goodTxRef), domain.ErrInvalidState)
	require.Equal(t, uint64(200_000_000), f.balance(t, buyer))
	require.Equal(t, uint64(0), f.balance(t, seller))
}

func TestGetBuyerPurchases(t *testing.T) {
	f := newEscrowFixture(t, 2_000)
	first := f.seedListing(t, 3_000)
	second := f.seedListing(t, 3_000)
	f.fundBuyer(t, 500_000_000)

	_, err := f.uc.PurchaseListing(buyer, first, "bc1qbuyerreceives")
	require.NoError(t, err)
	_, err = f.uc.PurchaseListing(buyer, second, "bc1qbuyerreceives")
	require.NoError(t, err)

	purchases, err := f.uc.GetBuyerPurchases(buyer)
	require.NoError(t, err)
	require.Len(t, purchases, 2)

	none, err := f.uc.GetBuyerPurchases(outsider)
	require.NoError(t, err)
	require.Empty(t, none)
}
