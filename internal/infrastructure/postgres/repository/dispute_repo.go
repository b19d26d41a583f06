package repository

import (
	"errors"
	"fmt"

	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/mappers"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) CreateDispute(dispute *domain.Dispute) error {
	disputeModel := mappers.ToGORMDispute(dispute)
	return r.db.Create(disputeModel).Error
}

// GetDisputeByListingID returns (nil, nil) when no dispute exists; absence is
// not an error for read accessors.
func (r *DefaultDisputeRepository) GetDisputeByListingID(listingID uint64) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.First(&disputeModel, "listing_id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) ResolveDispute(listingID uint64) error {
	result := r.db.Model(&models.DisputeModel{}).
		Where("listing_id = ?", listingID).
		Update("resolved", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("dispute for listing %d: %w", listingID, domain.ErrNotFound)
	}
	return nil
}
