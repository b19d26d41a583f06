package domain

type EscrowStatus string

const (
	EscrowActive    EscrowStatus = "active"
	EscrowDisputed  EscrowStatus = "disputed"
	EscrowCompleted EscrowStatus = "completed"
	EscrowRefunded  EscrowStatus = "refunded"
)

// Terminal reports whether the status admits no further transitions.
func (s EscrowStatus) Terminal() bool {
	return s == EscrowCompleted || s == EscrowRefunded
}

// CanTransitionTo encodes the escrow status DAG:
// active -> {disputed, completed}, disputed -> {completed, refunded}.
func (s EscrowStatus) CanTransitionTo(next EscrowStatus) bool {
	switch s {
	case EscrowActive:
		return next == EscrowDisputed || next == EscrowCompleted
	case EscrowDisputed:
		return next == EscrowCompleted || next == EscrowRefunded
	default:
		return false
	}
}

// Escrow is the custodial record holding a buyer's STX pending proof that the
// matching BTC payment landed. Keyed by listing ID: a listing is deactivated
// in the same transaction that creates its escrow, so at most one exists.
type Escrow struct {
	ListingID          uint64
	Buyer              string
	Seller             string // copied from the listing at purchase time
	StxAmount          uint64 // microSTX held in custody
	BtcAmount          uint64 // satoshis the seller must receive
	BtcReceiverAddress string // buyer-supplied destination for the BTC
	BtcTxRef           string // claimed BTC transaction id, empty until submitted
	Status             EscrowStatus
	CreatedAt          uint64 // block height
}

type EscrowRepository interface {
	CreateEscrow(escrow *Escrow) error
	GetEscrowByListingID(listingID uint64) (*Escrow, error)
	UpdateEscrowStatus(listingID uint64, status EscrowStatus) error
	SetEscrowTxRef(listingID uint64, btcTxRef string) error
	GetEscrowsByBuyer(buyer string) ([]*Escrow, error)
}

type EscrowUsecase interface {
	PurchaseListing(caller string, listingID uint64, btcReceiverAddress string) (uint64, error)
	ConfirmReceipt(caller string, listingID uint64, btcTxRef string) error
	OpenDispute(caller string, listingID uint64, reason string) error
	RefundEscrow(caller string, listingID uint64) error
	GetEscrow(listingID uint64) (*Escrow, error)
	GetBuyerPurchases(buyer string) ([]*Escrow, error)
}
