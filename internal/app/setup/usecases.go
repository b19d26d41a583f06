package setup

import (
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/usecase/dispute"
	"github.com/satsbridge/marketplace-service/internal/usecase/escrow"
	"github.com/satsbridge/marketplace-service/internal/usecase/listing"
	"github.com/satsbridge/marketplace-service/internal/usecase/marketquery"
)

type UseCases struct {
	ListingUsecase *listing.DefaultListingUsecase
	EscrowUsecase  domain.EscrowUsecase
	DisputeUsecase domain.DisputeUsecase
	QueryUsecase   *marketquery.DefaultMarketQueryUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	listingUsecase := listing.NewDefaultListingUsecase(
		deps.Store,
		deps.Heights,
		deps.Config.Platform.Address,
		deps.Metrics,
	)

	escrowUsecase := escrow.NewDefaultEscrowUsecase(
		deps.Store,
		deps.Verifier,
		deps.Heights,
		deps.Publisher,
		deps.Metrics,
		deps.Config.Platform,
	)

	disputeUsecase := dispute.NewDefaultDisputeUsecase(
		deps.Store,
		deps.Config.Platform.Address,
		deps.Publisher,
		deps.Metrics,
	)

	queryUsecase := marketquery.NewDefaultMarketQueryUsecase(deps.Store, deps.Heights)

	return &UseCases{
		ListingUsecase: listingUsecase,
		EscrowUsecase:  escrowUsecase,
		DisputeUsecase: disputeUsecase,
		QueryUsecase:   queryUsecase,
	}
}
