package models

import "time"

type DisputeModel struct {
	ID              string `gorm:"primaryKey"`
	ListingID       uint64 `gorm:"uniqueIndex:idx_dispute_listing"`
	Initiator       string
	Reason          string
	Resolved        bool
	CreatedAtHeight uint64
	Escrow          EscrowModel `gorm:"foreignKey:ListingID;references:ListingID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
