package config

import (
	"os"
	"strconv"

	"cardops/internal/errors"

	"cardops/domain/card"
)

// Config represents the complete application configuration
type Config struct {
	Ingest   IngestConfig
	Server   ServerConfig
	Database DatabaseConfig
}

// IngestConfig holds source and output locations for both domains
type IngestConfig struct {
	CardSourceDir     string
	CardOutputFile    string
	MachineSourceDir  string
	MachineOutputFile string
	LayoutVersion     card.LayoutVersion
	Workers           int
}

// ServerConfig holds dashboard API settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the optional Postgres mirror settings. An empty URL
// means the dashboard serves straight from the .xlsx tables.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	layout := card.LayoutV1
	if getEnvOrDefault("CARD_LAYOUT_VERSION", "1") == "2" {
		layout = card.LayoutV2
	}

	cfg := &Config{
		Ingest: IngestConfig{
			CardSourceDir:     getEnvOrDefault("CARD_SOURCE_DIR", "raw_data"),
			CardOutputFile:    getEnvOrDefault("CARD_OUTPUT_FILE", "DETAIL_PAKET_TRANSAKSI_GABUNGAN.xlsx"),
			MachineSourceDir:  getEnvOrDefault("MACHINE_SOURCE_DIR", "data-mesin"),
			MachineOutputFile: getEnvOrDefault("MACHINE_OUTPUT_FILE", "REKAP_DATA_MESIN_FULL.xlsx"),
			LayoutVersion:     layout,
			Workers:           getEnvIntOrDefault("INGEST_WORKERS", 4),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
	}

	if cfg.Ingest.Workers < 1 {
		return nil, errors.ConfigInvalid("INGEST_WORKERS must be at least 1")
	}
	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
