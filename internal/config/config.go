package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glorimarket/cart_service/internal/models"
	"github.com/glorimarket/cart_service/internal/pricing"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DB_HOST       string
	DB_PORT       string
	DB_USER       string
	DB_PASSWORD   string
	DB_NAME       string
	JWT_SECRET    string
	KAFKA_ADDRESS string
	SHIPPING      string
	TAX           string
	LOG_LEVEL     string
	SERVER_PORT   string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:       os.Getenv("DB_HOST"),
		DB_PORT:       os.Getenv("DB_PORT"),
		DB_USER:       os.Getenv("DB_USER"),
		DB_PASSWORD:   os.Getenv("DB_PASSWORD"),
		DB_NAME:       os.Getenv("DB_NAME"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		SHIPPING:      os.Getenv("SHIPPING"),
		TAX:           os.Getenv("TAX"),
		LOG_LEVEL:     os.Getenv("LOG_LEVEL"),
		SERVER_PORT:   os.Getenv("SERVER_PORT"),
	}

	return config, nil
}

// PricingConfig resolves the per-order shipping and tax constants, falling
// back to the storefront defaults when the env leaves them unset.
func (c *Config) PricingConfig() (pricing.Config, error) {
	cfg := pricing.DefaultConfig()

	if c.SHIPPING != "" {
		shipping, err := decimal.NewFromString(c.SHIPPING)
		if err != nil {
			return pricing.Config{}, fmt.Errorf("invalid SHIPPING %q: %w", c.SHIPPING, err)
		}
		cfg.Shipping = shipping
	}
	if c.TAX != "" {
		tax, err := decimal.NewFromString(c.TAX)
		if err != nil {
			return pricing.Config{}, fmt.Errorf("invalid TAX %q: %w", c.TAX, err)
		}
		cfg.Tax = tax
	}
	return cfg, nil
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func (c *Config) InitDB(ctx context.Context) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}
