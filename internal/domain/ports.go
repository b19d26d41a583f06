package domain

import "context"

// BtcVerifier is the payment verification oracle consumed by the escrow
// manager. Implementations decide whether btcTxRef is a confirmed payment of
// at least amountSats to the given address; how they decide is their problem.
// A false result and an error are both "not confirmed yet" from the state
// machine's point of view, but callers see them as distinct outcomes.
type BtcVerifier interface {
	IsPaymentVerified(ctx context.Context, btcTxRef string, amountSats uint64, btcAddress string) (bool, error)
}

// HeightProvider reads the current block height of the settlement chain.
// Height is the only clock the marketplace uses: expiry and created-at fields
// are all heights, read once at the start of each operation.
type HeightProvider interface {
	CurrentHeight() (uint64, error)
}
