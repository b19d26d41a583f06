package domain

// Dispute flags a disagreement over an escrow's outcome. At most one dispute
// exists per escrow and `Resolved` only ever goes false -> true. Resolution
// records the platform's decision; moving funds is the escrow manager's job.
type Dispute struct {
	ID        string
	ListingID uint64
	Initiator string // buyer or seller
	Reason    string
	Resolved  bool
	CreatedAt uint64 // block height
}

type DisputeRepository interface {
	CreateDispute(dispute *Dispute) error
	// GetDisputeByListingID returns (nil, nil) when no dispute exists.
	GetDisputeByListingID(listingID uint64) (*Dispute, error)
	ResolveDispute(listingID uint64) error
}

type DisputeUsecase interface {
	ResolveDispute(caller string, listingID uint64) error
	GetDispute(listingID uint64) (*Dispute, error)
}
