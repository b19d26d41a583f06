package models

import "time"

type ListingModel struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	Seller          string `gorm:"index:idx_listing_seller"`
	PricePerBtc     uint64
	BtcAmount       uint64
	StxRequired     uint64
	BtcAddress      string
	Active          bool   `gorm:"index:idx_listing_active"`
	CreatedAtHeight uint64
	ExpiresAtHeight uint64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
