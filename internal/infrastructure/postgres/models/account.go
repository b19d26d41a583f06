package models

import "time"

type AccountModel struct {
	Address   string `gorm:"primaryKey"`
	Balance   uint64
	UpdatedAt time.Time
}
