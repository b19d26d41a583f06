package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/satsbridge/marketplace-service/internal/app/background"
	"github.com/satsbridge/marketplace-service/internal/app/setup"
	"github.com/satsbridge/marketplace-service/internal/delivery/httpapi"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/migrate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	if err := run(); err != nil {
		log.Fatalf("marketplace-service: %v", err)
	}
}

func run() error {
	deps, err := setup.InitializeDependencies()
	if err != nil {
		return fmt.Errorf("init dependencies: %w", err)
	}
	defer deps.Publisher.Close()

	// Versioned migrations on top of the AutoMigrate baseline
	if migrationsPath := os.Getenv("MARKETPLACE_MIGRATIONS_PATH"); migrationsPath != "" {
		if err := migrate.RunMigrations(deps.DB, migrationsPath); err != nil {
			return err
		}
	}

	usecases := setup.InitializeUseCases(deps)

	tasks := background.NewBackgroundTasks(
		usecases.ListingUsecase,
		deps.Heights,
		deps.Config.ChainService.PollInterval,
	)
	tasks.StartAll(context.Background())

	router := httpapi.NewRouter(httpapi.Handlers{
		Listings: httpapi.NewListingHandler(usecases.ListingUsecase),
		Escrows:  httpapi.NewEscrowHandler(usecases.EscrowUsecase),
		Disputes: httpapi.NewDisputeHandler(usecases.DisputeUsecase),
		Queries:  httpapi.NewQueryHandler(usecases.QueryUsecase),
	})

	addr := fmt.Sprintf("%s:%s", deps.Config.HTTPServer.Host, deps.Config.HTTPServer.Port)
	log.Printf("HTTP server started on %s\n", addr)
	return http.ListenAndServe(addr, router)
}
