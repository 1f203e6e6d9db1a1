package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	PORT          string
	LOG_LEVEL     string
	STORE_BACKEND string

	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	MONGO_URL string
	MONGO_DB  string

	KAFKA_ADDRESS string
	KAFKA_TOPIC   string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string
	ES_INDEX    string

	CATALOG_API_URL string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:          getenv("PORT", "8000"),
		LOG_LEVEL:     os.Getenv("LOG_LEVEL"),
		STORE_BACKEND: getenv("STORE_BACKEND", BackendPostgres),

		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		MONGO_URL: os.Getenv("MONGO_URL"),
		MONGO_DB:  getenv("MONGO_DB", "shop"),

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		KAFKA_TOPIC:   getenv("KAFKA_TOPIC", "product_events"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),
		ES_INDEX:    getenv("ES_INDEX", "products"),

		CATALOG_API_URL: getenv("CATALOG_API_URL", "https://www.freetogame.com/api"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.STORE_BACKEND {
	case BackendPostgres:
		for _, v := range []struct{ name, value string }{
			{"DB_HOST", c.DB_HOST},
			{"DB_PORT", c.DB_PORT},
			{"DB_USER", c.DB_USER},
			{"DB_NAME", c.DB_NAME},
		} {
			if v.value == "" {
				return fmt.Errorf("missing required env %s", v.name)
			}
		}
	case BackendMongo:
		if c.MONGO_URL == "" {
			return fmt.Errorf("missing required env MONGO_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.STORE_BACKEND)
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME,
	)
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
