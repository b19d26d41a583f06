package setup

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/satsbridge/marketplace-service/internal/config"
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/btc"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/chain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/kafka"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/metrics"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config    *config.MarketplaceConfig
	DB        *gorm.DB
	Store     domain.TxStore
	Publisher *kafka.KafkaPublisher
	Verifier  domain.BtcVerifier
	Heights   *chain.NodeHeightProvider
	Metrics   *metrics.MarketMetrics
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}

	return &Dependencies{
		Config:    cfg,
		DB:        db,
		Store:     postgres.NewStore(db),
		Publisher: kafka.NewKafkaPublisher(brokers),
		Verifier:  btc.NewEsploraVerifier(cfg.OracleService),
		Heights:   chain.NewNodeHeightProvider(cfg.ChainService),
		Metrics:   metrics.NewMarketMetrics(prometheus.DefaultRegisterer),
	}, nil
}
