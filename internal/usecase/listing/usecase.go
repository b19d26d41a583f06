package listing

import (
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/metrics"
)

// DefaultListingUsecase is the listing registry: it owns listing records and
// their active/expired life cycle. Deactivation during a purchase happens
// inside the escrow manager's transaction; the public status operation here
// is the administrative override.
type DefaultListingUsecase struct {
	store           domain.TxStore
	heights         domain.HeightProvider
	platformAddress string
	metrics         *metrics.MarketMetrics
}

func NewDefaultListingUsecase(
	store domain.TxStore,
	heights domain.HeightProvider,
	platformAddress string,
	marketMetrics *metrics.MarketMetrics) *DefaultListingUsecase {

	return &DefaultListingUsecase{
		store:           store,
		heights:         heights,
		platformAddress: platformAddress,
		metrics:         marketMetrics,
	}
}
