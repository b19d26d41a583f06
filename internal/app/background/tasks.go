package background

import (
	"context"
	"log"
	"time"

	"github.com/satsbridge/marketplace-service/internal/infrastructure/chain"
	"github.com/satsbridge/marketplace-service/internal/usecase/listing"
)

type BackgroundTasks struct {
	ListingUsecase *listing.DefaultListingUsecase
	Heights        *chain.NodeHeightProvider
	PollInterval   time.Duration
}

func NewBackgroundTasks(listingUC *listing.DefaultListingUsecase, heights *chain.NodeHeightProvider, pollInterval time.Duration) *BackgroundTasks {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &BackgroundTasks{
		ListingUsecase: listingUC,
		Heights:        heights,
		PollInterval:   pollInterval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startHeightRefresh(ctx)
	go bt.startListingExpirySweep(ctx)
}

func (bt *BackgroundTasks) startHeightRefresh(ctx context.Context) {
	ticker := time.NewTicker(bt.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.Heights.Refresh(); err != nil {
				log.Printf("Height refresh error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startListingExpirySweep(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.ListingUsecase.DeactivateExpiredListings(); err != nil {
				log.Printf("Listing expiry sweep error: %v\n", err)
			}
		}
	}
}
