package mappers

import (
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/models"
)

func ToDomainEscrow(model *models.EscrowModel) *domain.Escrow {
	return &domain.Escrow{
		ListingID:          model.ListingID,
		Buyer:              model.Buyer,
		Seller:             model.Seller,
		StxAmount:          model.StxAmount,
		BtcAmount:          model.BtcAmount,
		BtcReceiverAddress: model.BtcReceiverAddress,
		BtcTxRef:           model.BtcTxRef,
		Status:             domain.EscrowStatus(model.Status),
		CreatedAt:          model.CreatedAtHeight,
	}
}

func ToGORMEscrow(escrow *domain.Escrow) *models.EscrowModel {
	return &models.EscrowModel{
		ListingID:          escrow.ListingID,
		Buyer:              escrow.Buyer,
		Seller:             escrow.Seller,
		StxAmount:          escrow.StxAmount,
		BtcAmount:          escrow.BtcAmount,
		BtcReceiverAddress: escrow.BtcReceiverAddress,
		BtcTxRef:           escrow.BtcTxRef,
		Status:             string(escrow.Status),
		CreatedAtHeight:    escrow.CreatedAt,
	}
}
