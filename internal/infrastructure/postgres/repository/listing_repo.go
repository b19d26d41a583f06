package repository

import (
	"errors"
	"fmt"

	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/mappers"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultListingRepository struct {
	db *gorm.DB
}

func NewDefaultListingRepository(db *gorm.DB) *DefaultListingRepository {
	return &DefaultListingRepository{db: db}
}

func (r *DefaultListingRepository) CreateListing(listing *domain.Listing) error {
	listingModel := mappers.ToGORMListing(listing)
	if err := r.db.Create(listingModel).Error; err != nil {
		return err
	}
	listing.ID = listingModel.ID
	return nil
}

func (r *DefaultListingRepository) GetListingByID(listingID uint64) (*domain.Listing, error) {
	var listingModel models.ListingModel
	if err := r.db.First(&listingModel, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing %d: %w", listingID, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainListing(&listingModel), nil
}

func (r *DefaultListingRepository) UpdateListingStatus(listingID uint64, active bool) error {
	var listingModel models.ListingModel
	if err := r.db.First(&listingModel, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("listing %d: %w", listingID, domain.ErrNotFound)
		}
		return err
	}
	// active only ever transitions true -> false
	if active && !listingModel.Active {
		return fmt.Errorf("listing %d cannot be reactivated: %w", listingID, domain.ErrInvalidState)
	}
	return r.db.Model(&models.ListingModel{}).
		Where("id = ?", listingID).
		Update("active", active).Error
}

func (r *DefaultListingRepository) GetListingCount() (uint64, error) {
	var count int64
	if err := r.db.Model(&models.ListingModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return uint64(count), nil
}

func (r *DefaultListingRepository) GetListingsByRange(startID, endID uint64) ([]*domain.Listing, error) {
	var listingModels []models.ListingModel
	if err := r.db.
		Where("id BETWEEN ? AND ?", startID, endID).
		Order("id ASC").
		Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*domain.Listing, len(listingModels))
	for i, listingModel := range listingModels {
		listings[i] = mappers.ToDomainListing(&listingModel)
	}
	return listings, nil
}

func (r *DefaultListingRepository) GetExpiredActiveListings(currentHeight uint64) ([]*domain.Listing, error) {
	var listingModels []models.ListingModel
	if err := r.db.
		Where("active = ? AND expires_at_height < ?", true, currentHeight).
		Order("id ASC").
		Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*domain.Listing, len(listingModels))
	for i, listingModel := range listingModels {
		listings[i] = mappers.ToDomainListing(&listingModel)
	}
	return listings, nil
}

func (r *DefaultListingRepository) GetListingsBySeller(seller string) ([]*domain.Listing, error) {
	var listingModels []models.ListingModel
	if err := r.db.
		Where("seller = ?", seller).
		Order("id ASC").
		Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*domain.Listing, len(listingModels))
	for i, listingModel := range listingModels {
		listings[i] = mappers.ToDomainListing(&listingModel)
	}
	return listings, nil
}
