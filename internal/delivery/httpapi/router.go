package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Listings *ListingHandler
	Escrows  *EscrowHandler
	Disputes *DisputeHandler
	Queries  *QueryHandler
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/listings", func(r chi.Router) {
			r.Post("/", h.Listings.CreateListing)
			r.Get("/count", h.Listings.GetListingCount)
			r.Get("/batch", h.Queries.GetListingsBatch)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Listings.GetListing)
				r.Patch("/status", h.Listings.UpdateListingStatus)
				r.Get("/details", h.Queries.GetListingDetails)

				r.Post("/purchase", h.Escrows.PurchaseListing)
				r.Post("/confirm", h.Escrows.ConfirmReceipt)
				r.Post("/dispute", h.Escrows.OpenDispute)
				r.Post("/refund", h.Escrows.RefundEscrow)
				r.Post("/resolve", h.Disputes.ResolveDispute)

				r.Get("/escrow", h.Escrows.GetEscrow)
				r.Get("/dispute", h.Disputes.GetDispute)
			})
		})

		r.Get("/sellers/{address}/listings", h.Queries.GetSellerListings)
		r.Get("/buyers/{address}/purchases", h.Queries.GetBuyerPurchases)
	})

	return r
}
