package domain

// Listing is a seller's standing offer to exchange a BTC amount (satoshis)
// for STX (microSTX). Listings are never deleted: once purchased or expired
// they stay around, deactivated, for audit and queries.
type Listing struct {
	ID          uint64
	Seller      string
	PricePerBtc uint64 // microSTX per whole BTC
	BtcAmount   uint64 // satoshis
	StxRequired uint64 // microSTX, computed at creation
	BtcAddress  string // seller-owned BTC address shown to buyers
	Active      bool
	CreatedAt   uint64 // block height
	ExpiresAt   uint64 // block height
}

type ListingRepository interface {
	CreateListing(listing *Listing) error
	GetListingByID(listingID uint64) (*Listing, error)
	// UpdateListingStatus flips the active flag. Listings only ever go
	// active -> inactive; repositories must reject the reverse.
	UpdateListingStatus(listingID uint64, active bool) error
	GetListingCount() (uint64, error)
	GetListingsByRange(startID, endID uint64) ([]*Listing, error)
	GetListingsBySeller(seller string) ([]*Listing, error)
	GetExpiredActiveListings(currentHeight uint64) ([]*Listing, error)
}

type CreateListingInput struct {
	Seller      string
	PricePerBtc uint64
	BtcAmount   uint64
	BtcAddress  string
	ExpiresAt   uint64
}

type ListingUsecase interface {
	CreateListing(input *CreateListingInput) (uint64, error)
	GetListing(listingID uint64) (*Listing, error)
	GetListingCount() (uint64, error)
	UpdateListingStatus(caller string, listingID uint64, active bool) error
}
