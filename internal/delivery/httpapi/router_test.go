package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/satsbridge/marketplace-service/internal/config"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/chain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/metrics"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres"
	"github.com/satsbridge/marketplace-service/internal/usecase/dispute"
	"github.com/satsbridge/marketplace-service/internal/usecase/escrow"
	"github.com/satsbridge/marketplace-service/internal/usecase/listing"
	"github.com/satsbridge/marketplace-service/internal/usecase/marketquery"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	sellerAddr   = "ST2SELLER"
	buyerAddr    = "ST3BUYER"
	platformAddr = "ST1PLATFORM"
	vaultAddr    = "ST1VAULT"

	testTxRef = "aa11bb22cc33dd44ee55ff6600112233445566778899aabbccddeeff00112233"
)

type okVerifier struct{}

func (okVerifier) IsPaymentVerified(context.Context, string, uint64, string) (bool, error) {
	return true, nil
}

type apiFixture struct {
	server *httptest.Server
	store  *postgres.Store
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, postgres.AutoMigrate(db))
	store := postgres.NewStore(db)

	heights := &chain.StaticHeightProvider{Height: 10_000}
	marketMetrics := metrics.NewMarketMetrics(prometheus.NewRegistry())
	platformCfg := config.Platform{Address: platformAddr, VaultAddress: vaultAddr, FeeBps: 1_000}

	listingUC := listing.NewDefaultListingUsecase(store, heights, platformAddr, marketMetrics)
	escrowUC := escrow.NewDefaultEscrowUsecase(store, okVerifier{}, heights, nil, marketMetrics, platformCfg)
	disputeUC := dispute.NewDefaultDisputeUsecase(store, platformAddr, nil, marketMetrics)
	queryUC := marketquery.NewDefaultMarketQueryUsecase(store, heights)

	router := NewRouter(Handlers{
		Listings: NewListingHandler(listingUC),
		Escrows:  NewEscrowHandler(escrowUC),
		Disputes: NewDisputeHandler(disputeUC),
		Queries:  NewQueryHandler(queryUC),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &apiFixture{server: server, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path, caller string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}
	response, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func decode[T any](t *testing.T, response *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(response.Body).Decode(&out))
	return out
}

func (f *apiFixture) createListing(t *testing.T) uint64 {
	t.Helper()
	response := f.do(t, http.MethodPost, "/api/v1/listings", sellerAddr, map[string]any{
		"price_per_btc": 20_000_000_000,
		"btc_amount":    1_000_000,
		"btc_address":   "bc1qselleraddress",
		"expires_at":    11_000,
	})
	require.Equal(t, http.StatusCreated, response.StatusCode)
	return decode[createListingResponse](t, response).ListingID
}

func (f *apiFixture) purchase(t *testing.T, listingID uint64) {
	t.Helper()
	require.NoError(t, f.store.Ledger().Credit(buyerAddr, 200_000_000))
	response := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/purchase", listingID), buyerAddr,
		map[string]any{"btc_receiver_address": "bc1qbuyerreceives"})
	require.Equal(t, http.StatusCreated, response.StatusCode)
}

func TestCreateAndGetListing(t *testing.T) {
	f := newAPIFixture(t)
	listingID := f.createListing(t)

	response := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d", listingID), "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	body := decode[listingResponse](t, response)
	require.Equal(t, sellerAddr, body.Seller)
	require.Equal(t, uint64(200_000_000), body.StxRequired)
	require.True(t, body.Active)

	response = f.do(t, http.MethodGet, "/api/v1/listings/count", "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, uint64(1), decode[listingCountResponse](t, response).Count)
}

func TestCreateListingRequiresCaller(t *testing.T) {
	f := newAPIFixture(t)

	response := f.do(t, http.MethodPost, "/api/v1/listings", "", map[string]any{
		"price_per_btc": 20_000_000_000,
		"btc_amount":    1_000_000,
		"btc_address":   "bc1qselleraddress",
		"expires_at":    11_000,
	})
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	require.Equal(t, "invalid_input", decode[errorResponse](t, response).Code)
}

func TestGetListingErrors(t *testing.T) {
	f := newAPIFixture(t)

	response := f.do(t, http.MethodGet, "/api/v1/listings/999", "", nil)
	require.Equal(t, http.StatusNotFound, response.StatusCode)
	require.Equal(t, "not_found", decode[errorResponse](t, response).Code)

	response = f.do(t, http.MethodGet, "/api/v1/listings/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestPurchaseFlow(t *testing.T) {
	f := newAPIFixture(t)
	listingID := f.createListing(t)
	f.purchase(t, listingID)

	response := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d/escrow", listingID), "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	body := decode[escrowResponse](t, response)
	require.Equal(t, buyerAddr, body.Buyer)
	require.Equal(t, "active", body.Status)

	// a purchased listing is gone from the storefront
	response = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/purchase", listingID), buyerAddr,
		map[string]any{"btc_receiver_address": "bc1qbuyerreceives"})
	require.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestPurchaseWithoutFunds(t *testing.T) {
	f := newAPIFixture(t)
	listingID := f.createListing(t)

	response := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/purchase", listingID), buyerAddr,
		map[string]any{"btc_receiver_address": "bc1qbuyerreceives"})
	require.Equal(t, http.StatusPaymentRequired, response.StatusCode)
	require.Equal(t, "insufficient_funds", decode[errorResponse](t, response).Code)
}

func TestConfirmReceipt(t *testing.T) {
	f := newAPIFixture(t)
	listingID := f.createListing(t)
	f.purchase(t, listingID)

	response := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/confirm", listingID), buyerAddr,
		map[string]any{"btc_tx_ref": testTxRef})
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	response = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d/escrow", listingID), "", nil)
	body := decode[escrowResponse](t, response)
	require.Equal(t, "completed", body.Status)
	require.Equal(t, testTxRef, body.BtcTxRef)
}

func TestDisputeAndRefundFlow(t *testing.T) {
	f := newAPIFixture(t)
	listingID := f.createListing(t)
	f.purchase(t, listingID)

	// no dispute yet
	response := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d/dispute", listingID), "", nil)
	require.Equal(t, http.StatusNotFound, response.StatusCode)

	// refund before any dispute is refused
	response = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/refund", listingID), platformAddr, nil)
	require.Equal(t, http.StatusConflict, response.StatusCode)
	require.Equal(t, "invalid_state", decode[errorResponse](t, response).Code)

	response = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/dispute", listingID), buyerAddr,
		map[string]any{"reason": "btc never arrived"})
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	response = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d/dispute", listingID), "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, buyerAddr, decode[disputeResponse](t, response).Initiator)

	// only the platform refunds
	response = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/refund", listingID), buyerAddr, nil)
	require.Equal(t, http.StatusForbidden, response.StatusCode)
	require.Equal(t, "unauthorized", decode[errorResponse](t, response).Code)

	response = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/refund", listingID), platformAddr, nil)
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	response = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/resolve", listingID), platformAddr, nil)
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	response = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d/details", listingID), "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	details := decode[listingDetailsResponse](t, response)
	require.NotNil(t, details.Escrow)
	require.Equal(t, "refunded", details.Escrow.Status)
	require.NotNil(t, details.Dispute)
	require.True(t, details.Dispute.Resolved)
}

func TestListingDetailsAndQueries(t *testing.T) {
	f := newAPIFixture(t)
	listingID := f.createListing(t)

	response := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d/details", listingID), "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	details := decode[listingDetailsResponse](t, response)
	require.True(t, details.IsActive)
	require.Nil(t, details.Escrow)
	require.Nil(t, details.Dispute)

	response = f.do(t, http.MethodGet, "/api/v1/listings/batch?start=1&end=10", "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Len(t, decode[[]listingResponse](t, response), 1)

	response = f.do(t, http.MethodGet, "/api/v1/listings/batch?start=1&end=5000", "", nil)
	require.Equal(t, http.StatusBadRequest, response.StatusCode)

	response = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/sellers/%s/listings", sellerAddr), "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Len(t, decode[[]listingResponse](t, response), 1)

	f.purchase(t, listingID)
	response = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/buyers/%s/purchases", buyerAddr), "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Len(t, decode[[]escrowResponse](t, response), 1)
}

func TestUpdateListingStatus(t *testing.T) {
	f := newAPIFixture(t)
	listingID := f.createListing(t)

	response := f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/listings/%d/status", listingID), sellerAddr,
		map[string]any{"active": false})
	require.Equal(t, http.StatusForbidden, response.StatusCode)

	response = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/listings/%d/status", listingID), platformAddr,
		map[string]any{"active": false})
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	response = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d", listingID), "", nil)
	require.False(t, decode[listingResponse](t, response).Active)
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)

	response := f.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
}
