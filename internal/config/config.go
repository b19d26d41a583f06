package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type MarketplaceConfig struct {
	Env           string `yaml:"env"`
	HTTPServer    `yaml:"http_server"`
	MarketplaceDB `yaml:"marketplace_db"`
	LogConfig     `yaml:"log_config"`
	KafkaService  `yaml:"kafka-service"`
	OracleService `yaml:"oracle-service"`
	ChainService  `yaml:"chain-service"`
	Platform      `yaml:"platform"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type MarketplaceDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type OracleService struct {
	BaseURL          string        `yaml:"base_url"`
	MinConfirmations uint64        `yaml:"min_confirmations"`
	Timeout          time.Duration `yaml:"timeout"`
}

type ChainService struct {
	NodeURL      string        `yaml:"node_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type Platform struct {
	// Address is the platform authority: the only caller allowed to refund
	// escrows and resolve disputes. It also collects platform fees.
	Address string `yaml:"address"`
	// VaultAddress holds custodied buyer funds between purchase and release.
	VaultAddress string `yaml:"vault_address"`
	FeeBps       uint64 `yaml:"fee_bps"`
}

func MustLoad() *MarketplaceConfig {

	// Processing env config variable and file
	configPath := os.Getenv("MARKETPLACE_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("MARKETPLACE_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg MarketplaceConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
