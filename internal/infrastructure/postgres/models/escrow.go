package models

import "time"

// EscrowModel is keyed by the listing it belongs to: the primary key is what
// guarantees at most one escrow per listing at the storage level.
type EscrowModel struct {
	ListingID          uint64 `gorm:"primaryKey;autoIncrement:false"`
	Buyer              string `gorm:"index:idx_escrow_buyer"`
	Seller             string
	StxAmount          uint64
	BtcAmount          uint64
	BtcReceiverAddress string
	BtcTxRef           string
	Status             string       `gorm:"index:idx_escrow_status"`
	CreatedAtHeight    uint64
	Listing            ListingModel `gorm:"foreignKey:ListingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
