package domain

// LedgerRepository keeps microSTX balances per address. Custodied funds live
// on a dedicated vault account; the escrow manager is the only component
// allowed to move them.
type LedgerRepository interface {
	GetBalance(address string) (uint64, error)
	// Transfer moves amount from one account to another, failing with
	// ErrInsufficientFunds when the source balance is too small. A zero
	// amount is a no-op.
	Transfer(from, to string, amount uint64) error
	Credit(address string, amount uint64) error
}
