package domain

// Stores bundles the four repositories that make up the marketplace state.
// Inside RunAtomic the bundle is backed by a single DB transaction, so a
// cross-record operation (escrow status + fund movement + listing flip)
// commits or rolls back as one unit.
type Stores interface {
	Listings() ListingRepository
	Escrows() EscrowRepository
	Disputes() DisputeRepository
	Ledger() LedgerRepository
}

// TxStore is what usecases hold: plain reads outside a transaction plus
// RunAtomic for the mutating state-machine transitions.
type TxStore interface {
	Stores
	RunAtomic(fn func(Stores) error) error
}
