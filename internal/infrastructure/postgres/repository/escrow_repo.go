package repository

import (
	"errors"
	"fmt"

	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/mappers"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEscrowRepository struct {
	db *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{db: db}
}

func (r *DefaultEscrowRepository) CreateEscrow(escrow *domain.Escrow) error {
	escrowModel := mappers.ToGORMEscrow(escrow)
	return r.db.Create(escrowModel).Error
}

func (r *DefaultEscrowRepository) GetEscrowByListingID(listingID uint64) (*domain.Escrow, error) {
	var escrowModel models.EscrowModel
	if err := r.db.First(&escrowModel, "listing_id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("escrow for listing %d: %w", listingID, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainEscrow(&escrowModel), nil
}

func (r *DefaultEscrowRepository) UpdateEscrowStatus(listingID uint64, status domain.EscrowStatus) error {
	result := r.db.Model(&models.EscrowModel{}).
		Where("listing_id = ?", listingID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("escrow for listing %d: %w", listingID, domain.ErrNotFound)
	}
	return nil
}

func (r *DefaultEscrowRepository) SetEscrowTxRef(listingID uint64, btcTxRef string) error {
	result := r.db.Model(&models.EscrowModel{}).
		Where("listing_id = ?", listingID).
		Update("btc_tx_ref", btcTxRef)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("escrow for listing %d: %w", listingID, domain.ErrNotFound)
	}
	return nil
}

func (r *DefaultEscrowRepository) GetEscrowsByBuyer(buyer string) ([]*domain.Escrow, error) {
	var escrowModels []models.EscrowModel
	if err := r.db.
		Where("buyer = ?", buyer).
		Order("listing_id ASC").
		Find(&escrowModels).Error; err != nil {
		return nil, err
	}

	escrows := make([]*domain.Escrow, len(escrowModels))
	for i, escrowModel := range escrowModels {
		escrows[i] = mappers.ToDomainEscrow(&escrowModel)
	}
	return escrows, nil
}
