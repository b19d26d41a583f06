package mappers

import (
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/models"
)

func ToDomainListing(model *models.ListingModel) *domain.Listing {
	return &domain.Listing{
		ID:          model.ID,
		Seller:      model.Seller,
		PricePerBtc: model.PricePerBtc,
		BtcAmount:   model.BtcAmount,
		StxRequired: model.StxRequired,
		BtcAddress:  model.BtcAddress,
		Active:      model.Active,
		CreatedAt:   model.CreatedAtHeight,
		ExpiresAt:   model.ExpiresAtHeight,
	}
}

func ToGORMListing(listing *domain.Listing) *models.ListingModel {
	return &models.ListingModel{
		ID:              listing.ID,
		Seller:          listing.Seller,
		PricePerBtc:     listing.PricePerBtc,
		BtcAmount:       listing.BtcAmount,
		StxRequired:     listing.StxRequired,
		BtcAddress:      listing.BtcAddress,
		Active:          listing.Active,
		CreatedAtHeight: listing.CreatedAt,
		ExpiresAtHeight: listing.ExpiresAt,
	}
}
