package mappers

import (
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:        model.ID,
		ListingID: model.ListingID,
		Initiator: model.Initiator,
		Reason:    model.Reason,
		Resolved:  model.Resolved,
		CreatedAt: model.CreatedAtHeight,
	}
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:              dispute.ID,
		ListingID:       dispute.ListingID,
		Initiator:       dispute.Initiator,
		Reason:          dispute.Reason,
		Resolved:        dispute.Resolved,
		CreatedAtHeight: dispute.CreatedAt,
	}
}
