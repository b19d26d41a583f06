package escrow

import "github.com/satsbridge/marketplace-service/internal/domain"

func (uc *DefaultEscrowUsecase) GetEscrow(listingID uint64) (*domain.Escrow, error) {
	return uc.store.Escrows().GetEscrowByListingID(listingID)
}

func (uc *DefaultEscrowUsecase) GetBuyerPurchases(buyer string) ([]*domain.Escrow, error) {
	return uc.store.Escrows().GetEscrowsByBuyer(buyer)
}
