package postgres

import (
	"log"

	"github.com/satsbridge/marketplace-service/internal/config"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.MarketplaceConfig) *gorm.DB {
	dsn := cfg.MarketplaceDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if err := AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate db: %v\n", err.Error())
	}

	return db
}

// AutoMigrate is shared with test setups that run against sqlite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ListingModel{},
		&models.EscrowModel{},
		&models.DisputeModel{},
		&models.AccountModel{},
	)
}
